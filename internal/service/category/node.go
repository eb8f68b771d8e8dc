// Package category 네이버 쇼핑 카테고리 트리와 카테고리별 분석 키워드 집합을 관리합니다.
package category

import (
	"slices"
	"strings"
)

// UpdateMode 자동 발굴된 키워드를 기존 키워드 집합에 반영하는 방식입니다.
type UpdateMode string

const (
	// UpdateModeReplace 자동 키워드 집합을 새로 발굴된 키워드로 완전히 교체합니다.
	UpdateModeReplace UpdateMode = "replace"

	// UpdateModeMerge 새로 발굴된 키워드를 기존 자동 키워드 집합에 합칩니다.
	UpdateModeMerge UpdateMode = "merge"
)

// KeywordSet 카테고리 노드 하나가 보유하는 키워드 집합입니다.
//
// 키워드는 출처에 따라 분리하여 관리합니다:
//   - Auto: 자동 발굴 프로세스가 수집한 키워드
//   - User: 사용자가 직접 등록한 키워드
//   - Enabled: 실제 트렌드 분석에 사용되는 키워드 (항상 Auto ∪ User의 부분집합)
//
// 모든 집합은 중복 없이 오름차순으로 정렬된 슬라이스로 유지됩니다.
type KeywordSet struct {
	Auto    []string `json:"auto"`
	User    []string `json:"user"`
	Enabled []string `json:"enabled"`
}

// SubNode 소분류 카테고리 노드입니다.
type SubNode struct {
	Name       string `json:"name"`
	CategoryID string `json:"category_id"`

	KeywordSet
}

// MajorNode 대분류 카테고리 노드입니다.
//
// 대분류도 소분류와 동일하게 자신의 키워드 집합을 보유합니다.
// 소분류 지정 없이 수행되는 키워드 연산은 대분류 자신의 집합을 대상으로 합니다.
type MajorNode struct {
	Name        string   `json:"name"`
	CategoryID  string   `json:"category_id"`
	SeedQueries []string `json:"seed_queries"`

	KeywordSet

	Subs map[string]*SubNode `json:"subs"`
}

// clone KeywordSet의 깊은 복사본을 반환합니다.
func (k *KeywordSet) clone() KeywordSet {
	return KeywordSet{
		Auto:    slices.Clone(k.Auto),
		User:    slices.Clone(k.User),
		Enabled: slices.Clone(k.Enabled),
	}
}

// contains 키워드가 Auto 또는 User에 등록되어 있는지 여부를 반환합니다.
func (k *KeywordSet) contains(kw string) bool {
	return slices.Contains(k.Auto, kw) || slices.Contains(k.User, kw)
}

// restoreInvariant Enabled ⊆ Auto ∪ User 불변식을 복원합니다.
// 모든 변경 연산과 스냅샷 로드 직후에 호출됩니다.
func (k *KeywordSet) restoreInvariant() {
	k.Auto = normalize(k.Auto)
	k.User = normalize(k.User)
	k.Enabled = intersect(normalize(k.Enabled), union(k.Auto, k.User))
}

// clone SubNode의 깊은 복사본을 반환합니다.
func (n *SubNode) clone() *SubNode {
	return &SubNode{
		Name:       n.Name,
		CategoryID: n.CategoryID,
		KeywordSet: n.KeywordSet.clone(),
	}
}

// clone MajorNode의 깊은 복사본을 반환합니다.
func (n *MajorNode) clone() *MajorNode {
	subs := make(map[string]*SubNode, len(n.Subs))
	for name, sub := range n.Subs {
		subs[name] = sub.clone()
	}

	return &MajorNode{
		Name:        n.Name,
		CategoryID:  n.CategoryID,
		SeedQueries: slices.Clone(n.SeedQueries),
		KeywordSet:  n.KeywordSet.clone(),
		Subs:        subs,
	}
}

// restoreInvariant 대분류 자신과 모든 소분류의 키워드 집합 불변식을 복원합니다.
func (n *MajorNode) restoreInvariant() {
	n.KeywordSet.restoreInvariant()
	for _, sub := range n.Subs {
		sub.restoreInvariant()
	}
}

// normalize 키워드 집합을 중복 없는 오름차순 정렬 상태로 정규화합니다.
//
// 각 키워드는 앞뒤 공백을 제거하며, 제거 후 비어있는 키워드는 버립니다.
// (외부 수집기가 빈 문자열이나 공백 포함 키워드를 넘겨도 저장소에는 남지 않아야 합니다)
// nil이 입력되면 빈 슬라이스를 반환합니다.
func normalize(keywords []string) []string {
	result := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		result = append(result, kw)
	}

	slices.Sort(result)
	return slices.Compact(result)
}

// union 두 키워드 집합의 합집합을 정규화된 형태로 반환합니다.
func union(a, b []string) []string {
	merged := make([]string, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)
	return normalize(merged)
}

// intersect a에 속하면서 b에도 속하는 키워드만 반환합니다.
func intersect(a, b []string) []string {
	result := make([]string, 0, len(a))
	for _, kw := range a {
		if slices.Contains(b, kw) {
			result = append(result, kw)
		}
	}
	return result
}

// remove a에서 kw를 제거한 집합을 반환합니다.
func remove(a []string, kw string) []string {
	result := make([]string, 0, len(a))
	for _, v := range a {
		if v != kw {
			result = append(result, v)
		}
	}
	return result
}
