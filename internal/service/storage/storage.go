package storage

// SnapshotStore 도메인 상태 스냅샷(카테고리 키워드, 브랜드 순위 등)을
// 저장하고 불러오는 저장소 인터페이스
type SnapshotStore interface {
	// Load 지정된 이름의 스냅샷을 읽어 v에 역직렬화합니다.
	// 스냅샷이 존재하지 않으면 NotFound, 파일이 손상되었으면 Corrupted 에러를 반환합니다.
	Load(name string, v any) error

	// Save v를 지정된 이름의 스냅샷으로 저장합니다.
	// 기존 파일이 있으면 타임스탬프 백업을 만든 후 원자적으로 덮어씁니다.
	Save(name string, v any) error
}
