package category

import (
	"fmt"
	"slices"
	"sync"

	apperrors "github.com/GaYoung-La/naver-shopping-trend/internal/pkg/errors"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/storage"
	applog "github.com/GaYoung-La/naver-shopping-trend/pkg/log"
)

// component CategoryStore 로깅용 컴포넌트 이름
const component = "category.store"

// snapshotName 카테고리 트리 스냅샷의 저장소 이름입니다. (파일: category-keywords.json)
const snapshotName = "CategoryKeywords"

// Store 카테고리 트리와 카테고리별 키워드 집합을 관리하는 저장소입니다.
//
// API 서버와 스케줄러가 동시에 접근하므로 내부 트리는 sync.RWMutex로 보호되며,
// 모든 변경 연산은 성공 시 즉시 스냅샷 저장소에 반영됩니다.
//
// 키워드 연산에서 소분류(sub)는 선택 사항입니다. sub가 빈 문자열이면
// 대분류 노드 자신의 키워드 집합을 대상으로 동작합니다.
type Store struct {
	mu     sync.RWMutex
	majors map[string]*MajorNode

	snapshots storage.SnapshotStore
}

// Stats 카테고리 트리 전체의 집계 통계입니다.
type Stats struct {
	Majors          int `json:"majors"`
	Subs            int `json:"subs"`
	AutoKeywords    int `json:"auto_keywords"`
	UserKeywords    int `json:"user_keywords"`
	EnabledKeywords int `json:"enabled_keywords"`
}

// NewStore 스냅샷 저장소에서 카테고리 트리를 로드하여 Store를 생성합니다.
//
// 저장된 스냅샷이 없으면 기본 카테고리 템플릿으로 초기화합니다.
// 스냅샷이 존재하는 경우에는 템플릿에 새로 추가된 카테고리를 기존 트리에
// 병합합니다 (기존 키워드 데이터는 유지).
// 스냅샷 파일이 손상된 경우에는 묵시적으로 재생성하지 않고 Corrupted 에러를 반환합니다.
// (손상된 파일을 덮어쓰면 백업까지 밀려나 복구 기회를 잃을 수 있습니다)
func NewStore(snapshots storage.SnapshotStore) (*Store, error) {
	s := &Store{
		snapshots: snapshots,
	}

	var tree map[string]*MajorNode
	err := snapshots.Load(snapshotName, &tree)
	switch {
	case err == nil:
		// 빈 트리는 정상적인 저장 경로로는 만들어질 수 없는 상태이므로 손상으로 간주
		if len(tree) == 0 {
			return nil, apperrors.New(apperrors.Corrupted, "저장된 카테고리 트리가 비어 있습니다")
		}

		added := mergeSeedTemplate(tree)

		for _, major := range tree {
			major.restoreInvariant()
		}
		s.majors = tree

		applog.WithComponentAndFields(component, applog.Fields{
			"majors":         len(tree),
			"template_added": added,
		}).Info("카테고리 트리 로드 완료")

		if added {
			if err := s.persistLocked(); err != nil {
				return nil, err
			}
		}

	case apperrors.Is(err, apperrors.NotFound):
		s.majors = seedTemplate()

		applog.WithComponent(component).Info("저장된 카테고리 트리가 없어 기본 템플릿으로 초기화합니다")

		if err := s.persistLocked(); err != nil {
			return nil, err
		}

	default:
		return nil, err
	}

	return s, nil
}

// Majors 대분류 카테고리 이름 목록을 오름차순으로 반환합니다.
func (s *Store) Majors() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.majors))
	for name := range s.majors {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// Subs 지정된 대분류의 소분류 이름 목록을 오름차순으로 반환합니다.
// 대분류가 존재하지 않으면 NotFound 에러를 반환합니다.
func (s *Store) Subs(major string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	majorNode, ok := s.majors[major]
	if !ok {
		return nil, newErrMajorNotFound(major)
	}

	names := make([]string, 0, len(majorNode.Subs))
	for name := range majorNode.Subs {
		names = append(names, name)
	}
	slices.Sort(names)

	return names, nil
}

// Lookup 지정된 카테고리 노드의 복사본을 반환합니다.
//
//   - sub == "": 대분류 노드(소분류 포함)를 반환합니다.
//   - sub != "": 해당 소분류 노드만 포함한 대분류 노드를 반환합니다.
//
// 존재하지 않는 카테고리는 NotFound 에러를 반환합니다.
func (s *Store) Lookup(major, sub string) (*MajorNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	majorNode, ok := s.majors[major]
	if !ok {
		return nil, newErrMajorNotFound(major)
	}

	if sub == "" {
		return majorNode.clone(), nil
	}

	subNode, ok := majorNode.Subs[sub]
	if !ok {
		return nil, newErrSubNotFound(major, sub)
	}

	result := majorNode.clone()
	result.Subs = map[string]*SubNode{sub: subNode.clone()}

	return result, nil
}

// Stats 카테고리 트리 전체의 키워드 보유 현황을 집계하여 반환합니다.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{Majors: len(s.majors)}
	for _, major := range s.majors {
		stats.Subs += len(major.Subs)
		stats.AutoKeywords += len(major.Auto)
		stats.UserKeywords += len(major.User)
		stats.EnabledKeywords += len(major.Enabled)

		for _, sub := range major.Subs {
			stats.AutoKeywords += len(sub.Auto)
			stats.UserKeywords += len(sub.User)
			stats.EnabledKeywords += len(sub.Enabled)
		}
	}

	return stats
}

// EnabledKeywords 트렌드 분석에 사용할 키워드 목록을 반환합니다.
//
//   - major와 sub 모두 지정: 해당 소분류의 Enabled 집합.
//     비어있으면 대분류 전체의 Enabled 합집합으로 대체합니다.
//   - sub == "": 대분류 자신과 모든 소분류의 Enabled 합집합.
//
// 존재하지 않는 카테고리는 NotFound 에러를 반환합니다.
func (s *Store) EnabledKeywords(major, sub string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	majorNode, ok := s.majors[major]
	if !ok {
		return nil, newErrMajorNotFound(major)
	}

	if sub == "" {
		return s.unionEnabledLocked(majorNode), nil
	}

	subNode, ok := majorNode.Subs[sub]
	if !ok {
		return nil, newErrSubNotFound(major, sub)
	}

	if len(subNode.Enabled) > 0 {
		return slices.Clone(subNode.Enabled), nil
	}

	// 해당 소분류에 활성 키워드가 없으면 대분류 전체의 활성 키워드로 대체
	return s.unionEnabledLocked(majorNode), nil
}

// AllKeywords 카테고리의 키워드 집합(Auto/User/Enabled)을 반환합니다.
//
//   - sub 지정: 해당 소분류의 집합. Enabled가 비어있으면 EnabledKeywords와 동일하게
//     대분류 전체의 Enabled 합집합으로 대체합니다.
//   - sub == "": 대분류 자신과 모든 소분류의 집합별 합집합.
//
// onlyEnabled가 true이면 Auto와 User는 비운 채 Enabled만 채워 반환합니다.
// (활성화 상태만 필요한 조회에서 전체 키워드 목록 노출을 피하기 위함)
func (s *Store) AllKeywords(major, sub string, onlyEnabled bool) (KeywordSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	majorNode, ok := s.majors[major]
	if !ok {
		return KeywordSet{}, newErrMajorNotFound(major)
	}

	var result KeywordSet

	if sub == "" {
		result = majorNode.KeywordSet.clone()
		for _, subNode := range majorNode.Subs {
			result.Auto = union(result.Auto, subNode.Auto)
			result.User = union(result.User, subNode.User)
			result.Enabled = union(result.Enabled, subNode.Enabled)
		}
	} else {
		subNode, ok := majorNode.Subs[sub]
		if !ok {
			return KeywordSet{}, newErrSubNotFound(major, sub)
		}

		result = subNode.KeywordSet.clone()
		if len(result.Enabled) == 0 {
			result.Enabled = s.unionEnabledLocked(majorNode)
		}
	}

	if onlyEnabled {
		result.Auto = []string{}
		result.User = []string{}
	}

	return result, nil
}

// unionEnabledLocked 대분류 자신과 모든 소분류의 Enabled 합집합을 반환합니다.
// 호출자가 락을 보유한 상태여야 합니다.
func (s *Store) unionEnabledLocked(majorNode *MajorNode) []string {
	result := union(nil, majorNode.Enabled)
	for _, sub := range majorNode.Subs {
		result = union(result, sub.Enabled)
	}
	return result
}

// ApplyDiscovered 자동 발굴된 키워드를 지정된 카테고리에 반영하고 즉시 저장합니다.
// sub가 빈 문자열이면 대분류 자신의 키워드 집합에 반영합니다.
//
//   - UpdateModeReplace: Auto를 발굴된 키워드로 교체하고, Enabled를 (발굴 키워드 ∪ User)로 재구성합니다.
//   - UpdateModeMerge: 발굴된 키워드를 Auto와 Enabled 각각에 합칩니다.
func (s *Store) ApplyDiscovered(major, sub string, keywords []string, mode UpdateMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.targetLocked(major, sub)
	if err != nil {
		return err
	}

	discovered := normalize(keywords)

	switch mode {
	case UpdateModeReplace:
		target.Auto = discovered
		target.Enabled = union(discovered, target.User)

	case UpdateModeMerge:
		target.Auto = union(target.Auto, discovered)
		target.Enabled = union(target.Enabled, discovered)

	default:
		return apperrors.Newf(apperrors.InvalidInput, "지원하지 않는 키워드 갱신 방식입니다. (%s)", mode)
	}

	target.restoreInvariant()

	return s.persistLocked()
}

// AddUserKeyword 사용자 키워드를 지정된 카테고리에 추가하고 즉시 저장합니다.
// 추가된 키워드는 Enabled에도 포함됩니다. 이미 등록된 키워드는 Conflict 에러를 반환합니다.
func (s *Store) AddUserKeyword(major, sub, kw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.targetLocked(major, sub)
	if err != nil {
		return err
	}

	if slices.Contains(target.User, kw) {
		return apperrors.Newf(apperrors.Conflict, "이미 등록된 사용자 키워드입니다. (%s: %s)", categoryPath(major, sub), kw)
	}

	target.User = union(target.User, []string{kw})
	target.Enabled = union(target.Enabled, []string{kw})
	target.restoreInvariant()

	return s.persistLocked()
}

// RemoveKeyword 키워드를 지정된 카테고리의 모든 집합(Auto, User, Enabled)에서 제거하고 즉시 저장합니다.
// 어느 집합에도 존재하지 않는 키워드는 NotFound 에러를 반환합니다.
func (s *Store) RemoveKeyword(major, sub, kw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.targetLocked(major, sub)
	if err != nil {
		return err
	}

	if !target.contains(kw) {
		return apperrors.Newf(apperrors.NotFound, "등록되지 않은 키워드입니다. (%s: %s)", categoryPath(major, sub), kw)
	}

	target.Auto = remove(target.Auto, kw)
	target.User = remove(target.User, kw)
	target.Enabled = remove(target.Enabled, kw)
	target.restoreInvariant()

	return s.persistLocked()
}

// SetEnabled 키워드의 트렌드 분석 사용 여부를 변경하고 즉시 저장합니다.
//
// 활성화는 Auto 또는 User에 등록된 키워드만 가능합니다 (미등록 키워드는 NotFound).
// 비활성화는 Enabled에서 제거만 수행하며, 등록 집합은 변경하지 않습니다.
func (s *Store) SetEnabled(major, sub, kw string, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.targetLocked(major, sub)
	if err != nil {
		return err
	}

	if on {
		if !target.contains(kw) {
			return apperrors.Newf(apperrors.NotFound, "등록되지 않은 키워드는 활성화할 수 없습니다. (%s: %s)", categoryPath(major, sub), kw)
		}
		target.Enabled = union(target.Enabled, []string{kw})
	} else {
		target.Enabled = remove(target.Enabled, kw)
	}

	target.restoreInvariant()

	return s.persistLocked()
}

// SetAllEnabled 지정된 카테고리의 등록 키워드 전체를 일괄 활성화/비활성화하고 즉시 저장합니다.
//
//   - on == true: Enabled를 Auto ∪ User 전체로 설정합니다.
//   - on == false: Enabled를 비웁니다.
func (s *Store) SetAllEnabled(major, sub string, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.targetLocked(major, sub)
	if err != nil {
		return err
	}

	if on {
		target.Enabled = union(target.Auto, target.User)
	} else {
		target.Enabled = []string{}
	}

	target.restoreInvariant()

	return s.persistLocked()
}

// AddSubcategory 지정된 대분류 아래에 빈 소분류를 추가하고 즉시 저장합니다.
// 같은 이름의 소분류가 이미 존재하면 Conflict 에러를 반환합니다.
func (s *Store) AddSubcategory(major, sub string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	majorNode, ok := s.majors[major]
	if !ok {
		return newErrMajorNotFound(major)
	}

	if sub == "" {
		return apperrors.New(apperrors.InvalidInput, "소분류 이름이 비어있습니다")
	}
	if _, ok := majorNode.Subs[sub]; ok {
		return apperrors.Newf(apperrors.Conflict, "이미 존재하는 소분류입니다. (%s > %s)", major, sub)
	}

	if majorNode.Subs == nil {
		majorNode.Subs = make(map[string]*SubNode)
	}

	subNode := &SubNode{Name: sub}
	subNode.restoreInvariant()
	majorNode.Subs[sub] = subNode

	return s.persistLocked()
}

// targetLocked 키워드 연산의 대상 집합을 반환합니다. 호출자가 락을 보유한 상태여야 합니다.
// sub가 빈 문자열이면 대분류 노드 자신의 키워드 집합을 반환합니다.
func (s *Store) targetLocked(major, sub string) (*KeywordSet, error) {
	majorNode, ok := s.majors[major]
	if !ok {
		return nil, newErrMajorNotFound(major)
	}

	if sub == "" {
		return &majorNode.KeywordSet, nil
	}

	subNode, ok := majorNode.Subs[sub]
	if !ok {
		return nil, newErrSubNotFound(major, sub)
	}

	return &subNode.KeywordSet, nil
}

// persistLocked 현재 트리를 스냅샷 저장소에 저장합니다. 호출자가 락을 보유한 상태여야 합니다.
func (s *Store) persistLocked() error {
	if err := s.snapshots.Save(snapshotName, s.majors); err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "카테고리 트리 저장이 실패하였습니다")
	}
	return nil
}

// categoryPath 에러 메시지용 카테고리 경로 문자열을 만듭니다.
func categoryPath(major, sub string) string {
	if sub == "" {
		return major
	}
	return fmt.Sprintf("%s > %s", major, sub)
}

func newErrMajorNotFound(major string) error {
	return apperrors.New(apperrors.NotFound, fmt.Sprintf("존재하지 않는 대분류 카테고리입니다. (%s)", major))
}

func newErrSubNotFound(major, sub string) error {
	return apperrors.New(apperrors.NotFound, fmt.Sprintf("존재하지 않는 소분류 카테고리입니다. (%s > %s)", major, sub))
}
