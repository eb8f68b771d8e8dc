package notification

import "strings"

// splitMessage 전송 한도를 초과하는 메시지를 줄 단위로 잘라 여러 개의 메시지로 나눕니다.
// 한 줄이 한도보다 긴 경우에는 해당 줄을 문자 단위로 강제 분할합니다.
func splitMessage(text string, limit int) []string {
	if limit < 1 || len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var buf strings.Builder

	flush := func() {
		if buf.Len() > 0 {
			chunks = append(chunks, buf.String())
			buf.Reset()
		}
	}

	for _, line := range strings.Split(text, "\n") {
		// 현재 청크에 이 줄을 더하면 한도를 초과하는 경우 청크를 마감한다.
		if buf.Len() > 0 && buf.Len()+1+len(line) > limit {
			flush()
		}

		for len(line) > limit {
			flush()

			// UTF-8 문자 경계를 침범하지 않는 위치에서 자른다.
			cut := limit
			for cut > 0 && !isRuneStart(line[cut]) {
				cut--
			}
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}

		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(line)
	}
	flush()

	return chunks
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
