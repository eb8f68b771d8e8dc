package trend

import "math"

// RisingScore 키워드나 브랜드의 상승세를 하나의 점수로 환산합니다.
//   - isNew: 이전 집계에 존재하지 않던 신규 진입 (+100)
//   - rankDelta: 순위 변동 (음수 = 순위 상승, 상승폭 1당 +2)
//   - pctChange: 검색량 변화율(%) (양수인 경우에만 0.5 가중치로 반영)
//   - absChange: 검색량 절대 변화 (양수인 경우에만 0.3 가중치로 반영)
//
// 수치로 표현할 수 없는 변화율(±Inf, NaN: 검색량이 0에서 시작한 키워드)은
// 점수에 반영하지 않습니다. 반환되는 점수는 항상 유한합니다.
func RisingScore(isNew bool, rankDelta int, pctChange, absChange float64) float64 {
	var score float64

	if isNew {
		score += 100
	}
	if rankDelta < 0 {
		score += 2 * math.Abs(float64(rankDelta))
	}
	if !math.IsInf(pctChange, 0) && !math.IsNaN(pctChange) {
		score += 0.5 * math.Max(0, pctChange)
	}
	if !math.IsInf(absChange, 0) && !math.IsNaN(absChange) {
		score += 0.3 * math.Max(0, absChange)
	}

	return score
}
