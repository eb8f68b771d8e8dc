package category_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/GaYoung-La/naver-shopping-trend/internal/pkg/errors"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/category"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/storage"
)

func newStore(t *testing.T) (*category.Store, string) {
	t.Helper()

	dir := t.TempDir()
	snapshots, err := storage.NewFileSnapshotStore(dir, 3)
	require.NoError(t, err)

	store, err := category.NewStore(snapshots)
	require.NoError(t, err)

	return store, dir
}

func TestNewStore(t *testing.T) {
	t.Parallel()

	t.Run("성공: 저장된 스냅샷이 없으면 기본 템플릿으로 초기화한다", func(t *testing.T) {
		t.Parallel()

		store, dir := newStore(t)

		majors := store.Majors()
		assert.Contains(t, majors, "패션의류")
		assert.Contains(t, majors, "식품")
		assert.Len(t, majors, 9)

		// 초기화된 트리는 즉시 저장되어야 한다.
		_, err := os.Stat(filepath.Join(dir, "category-keywords.json"))
		assert.NoError(t, err)
	})

	t.Run("성공: 저장된 스냅샷이 있으면 그대로 로드한다", func(t *testing.T) {
		t.Parallel()

		store, dir := newStore(t)
		require.NoError(t, store.AddUserKeyword("패션의류", "여성의류", "원피스"))

		// 같은 디렉토리로 새 Store를 만들면 저장된 상태가 복원되어야 한다.
		snapshots, err := storage.NewFileSnapshotStore(dir, 3)
		require.NoError(t, err)
		reloaded, err := category.NewStore(snapshots)
		require.NoError(t, err)

		keywords, err := reloaded.EnabledKeywords("패션의류", "여성의류")
		require.NoError(t, err)
		assert.Equal(t, []string{"원피스"}, keywords)
	})

	t.Run("성공: 템플릿에 새로 추가된 대분류는 로드 시 기존 트리에 병합된다", func(t *testing.T) {
		t.Parallel()

		store, dir := newStore(t)
		require.NoError(t, store.AddUserKeyword("패션의류", "여성의류", "원피스"))

		// 템플릿의 대분류 하나가 빠진 과거 스냅샷을 재현한다.
		snapshotPath := filepath.Join(dir, "category-keywords.json")
		data, err := os.ReadFile(snapshotPath)
		require.NoError(t, err)

		var tree map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(data, &tree))
		require.Contains(t, tree, "식품")
		delete(tree, "식품")

		trimmed, err := json.Marshal(tree)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(snapshotPath, trimmed, 0644))

		snapshots, err := storage.NewFileSnapshotStore(dir, 3)
		require.NoError(t, err)
		reloaded, err := category.NewStore(snapshots)
		require.NoError(t, err)

		// 빠진 대분류는 템플릿에서 되살아나고 기존 키워드 데이터는 유지되어야 한다.
		assert.Contains(t, reloaded.Majors(), "식품")

		subs, err := reloaded.Subs("식품")
		require.NoError(t, err)
		assert.Contains(t, subs, "음료")

		keywords, err := reloaded.EnabledKeywords("패션의류", "여성의류")
		require.NoError(t, err)
		assert.Equal(t, []string{"원피스"}, keywords)
	})

	t.Run("실패: 손상된 스냅샷 파일은 Corrupted 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "category-keywords.json"), []byte("{broken"), 0644))

		snapshots, err := storage.NewFileSnapshotStore(dir, 3)
		require.NoError(t, err)

		_, err = category.NewStore(snapshots)

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.Corrupted))

		// 손상된 파일은 묵시적으로 재생성되지 않아야 한다.
		data, readErr := os.ReadFile(filepath.Join(dir, "category-keywords.json"))
		require.NoError(t, readErr)
		assert.Equal(t, "{broken", string(data))
	})

	t.Run("실패: 비어 있는 트리 스냅샷도 손상으로 간주한다", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "category-keywords.json"), []byte("null"), 0644))

		snapshots, err := storage.NewFileSnapshotStore(dir, 3)
		require.NoError(t, err)

		_, err = category.NewStore(snapshots)

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.Corrupted))
	})
}

func TestStore_ApplyDiscovered(t *testing.T) {
	t.Parallel()

	t.Run("성공: replace 모드는 자동 키워드를 교체하고 사용자 키워드를 보존한다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		require.NoError(t, store.AddUserKeyword("패션의류", "여성의류", "한복"))
		require.NoError(t, store.ApplyDiscovered("패션의류", "여성의류", []string{"원피스", "니트"}, category.UpdateModeReplace))

		// 다시 replace하면 이전 자동 키워드는 사라지고 사용자 키워드는 남아야 한다.
		require.NoError(t, store.ApplyDiscovered("패션의류", "여성의류", []string{"코트"}, category.UpdateModeReplace))

		node, err := store.Lookup("패션의류", "여성의류")
		require.NoError(t, err)

		sub := node.Subs["여성의류"]
		assert.Equal(t, []string{"코트"}, sub.Auto)
		assert.Equal(t, []string{"한복"}, sub.User)
		assert.Equal(t, []string{"코트", "한복"}, sub.Enabled)
	})

	t.Run("성공: merge 모드는 기존 키워드에 합친다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		require.NoError(t, store.ApplyDiscovered("식품", "음료", []string{"커피"}, category.UpdateModeMerge))
		require.NoError(t, store.ApplyDiscovered("식품", "음료", []string{"녹차", "커피"}, category.UpdateModeMerge))

		node, err := store.Lookup("식품", "음료")
		require.NoError(t, err)

		sub := node.Subs["음료"]
		assert.Equal(t, []string{"녹차", "커피"}, sub.Auto)
		assert.Equal(t, []string{"녹차", "커피"}, sub.Enabled)
	})

	t.Run("성공: 소분류를 생략하면 대분류 자신의 키워드 집합에 반영한다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		require.NoError(t, store.ApplyDiscovered("패션의류", "", []string{"간절기"}, category.UpdateModeMerge))

		node, err := store.Lookup("패션의류", "")
		require.NoError(t, err)

		assert.Equal(t, []string{"간절기"}, node.Auto)
		assert.Equal(t, []string{"간절기"}, node.Enabled)
		// 소분류의 키워드 집합은 건드리지 않아야 한다.
		assert.Empty(t, node.Subs["여성의류"].Auto)
	})

	t.Run("성공: 키워드의 앞뒤 공백을 제거하고 빈 키워드는 버린다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		require.NoError(t, store.ApplyDiscovered("패션의류", "여성의류", []string{" 원피스 ", "", "  "}, category.UpdateModeMerge))

		node, err := store.Lookup("패션의류", "여성의류")
		require.NoError(t, err)

		sub := node.Subs["여성의류"]
		assert.Equal(t, []string{"원피스"}, sub.Auto)
		assert.Equal(t, []string{"원피스"}, sub.Enabled)
	})

	t.Run("실패: 존재하지 않는 카테고리는 NotFound 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		err := store.ApplyDiscovered("없는분류", "여성의류", []string{"원피스"}, category.UpdateModeMerge)
		assert.True(t, apperrors.Is(err, apperrors.NotFound))

		err = store.ApplyDiscovered("패션의류", "없는소분류", []string{"원피스"}, category.UpdateModeMerge)
		assert.True(t, apperrors.Is(err, apperrors.NotFound))
	})

	t.Run("실패: 지원하지 않는 갱신 방식은 InvalidInput 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		err := store.ApplyDiscovered("패션의류", "여성의류", []string{"원피스"}, category.UpdateMode("append"))
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	})
}

func TestStore_AddUserKeyword(t *testing.T) {
	t.Parallel()

	t.Run("성공: 사용자 키워드는 User와 Enabled에 모두 추가된다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		require.NoError(t, store.AddUserKeyword("패션잡화", "가방", "백팩"))

		node, err := store.Lookup("패션잡화", "가방")
		require.NoError(t, err)

		sub := node.Subs["가방"]
		assert.Equal(t, []string{"백팩"}, sub.User)
		assert.Equal(t, []string{"백팩"}, sub.Enabled)
	})

	t.Run("실패: 이미 등록된 사용자 키워드는 Conflict 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		require.NoError(t, store.AddUserKeyword("패션잡화", "가방", "백팩"))

		err := store.AddUserKeyword("패션잡화", "가방", "백팩")
		assert.True(t, apperrors.Is(err, apperrors.Conflict))
	})
}

func TestStore_RemoveKeyword(t *testing.T) {
	t.Parallel()

	t.Run("성공: 키워드를 모든 집합에서 제거한다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		require.NoError(t, store.ApplyDiscovered("패션의류", "여성의류", []string{"원피스"}, category.UpdateModeMerge))
		require.NoError(t, store.AddUserKeyword("패션의류", "여성의류", "원피스2"))

		require.NoError(t, store.RemoveKeyword("패션의류", "여성의류", "원피스"))

		node, err := store.Lookup("패션의류", "여성의류")
		require.NoError(t, err)

		sub := node.Subs["여성의류"]
		assert.NotContains(t, sub.Auto, "원피스")
		assert.NotContains(t, sub.Enabled, "원피스")
		assert.Contains(t, sub.User, "원피스2")
	})

	t.Run("실패: 등록되지 않은 키워드는 NotFound 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		err := store.RemoveKeyword("패션의류", "여성의류", "없는키워드")
		assert.True(t, apperrors.Is(err, apperrors.NotFound))
	})
}

func TestStore_SetEnabled(t *testing.T) {
	t.Parallel()

	t.Run("성공: 비활성화는 Enabled에서만 제거하고 재활성화할 수 있다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		require.NoError(t, store.ApplyDiscovered("식품", "음료", []string{"커피"}, category.UpdateModeMerge))

		require.NoError(t, store.SetEnabled("식품", "음료", "커피", false))

		node, err := store.Lookup("식품", "음료")
		require.NoError(t, err)
		sub := node.Subs["음료"]
		assert.Contains(t, sub.Auto, "커피")
		assert.NotContains(t, sub.Enabled, "커피")

		require.NoError(t, store.SetEnabled("식품", "음료", "커피", true))

		node, err = store.Lookup("식품", "음료")
		require.NoError(t, err)
		assert.Contains(t, node.Subs["음료"].Enabled, "커피")
	})

	t.Run("실패: 등록되지 않은 키워드의 활성화는 NotFound 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		err := store.SetEnabled("식품", "음료", "없는키워드", true)
		assert.True(t, apperrors.Is(err, apperrors.NotFound))
	})

	t.Run("성공: 등록되지 않은 키워드의 비활성화는 아무 일도 하지 않는다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		assert.NoError(t, store.SetEnabled("식품", "음료", "없는키워드", false))
	})
}

func TestStore_EnabledKeywords(t *testing.T) {
	t.Parallel()

	t.Run("성공: 소분류의 활성 키워드를 반환한다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		require.NoError(t, store.ApplyDiscovered("식품", "음료", []string{"커피", "녹차"}, category.UpdateModeMerge))

		keywords, err := store.EnabledKeywords("식품", "음료")
		require.NoError(t, err)

		assert.Equal(t, []string{"녹차", "커피"}, keywords)
	})

	t.Run("성공: 소분류가 비어있으면 대분류 전체의 합집합으로 대체한다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		require.NoError(t, store.ApplyDiscovered("식품", "신선식품", []string{"사과", "포도"}, category.UpdateModeMerge))

		// "음료"는 비어있으므로 같은 대분류의 키워드 합집합을 돌려줘야 한다.
		keywords, err := store.EnabledKeywords("식품", "음료")
		require.NoError(t, err)

		assert.Equal(t, []string{"사과", "포도"}, keywords)
	})

	t.Run("성공: 소분류를 생략하면 대분류 전체의 합집합을 반환한다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		require.NoError(t, store.ApplyDiscovered("식품", "신선식품", []string{"사과"}, category.UpdateModeMerge))
		require.NoError(t, store.ApplyDiscovered("식품", "음료", []string{"커피"}, category.UpdateModeMerge))

		keywords, err := store.EnabledKeywords("식품", "")
		require.NoError(t, err)

		assert.Equal(t, []string{"사과", "커피"}, keywords)
	})

	t.Run("성공: 대분류 자신의 활성 키워드도 합집합에 포함된다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		require.NoError(t, store.AddUserKeyword("식품", "", "제철과일"))
		require.NoError(t, store.ApplyDiscovered("식품", "신선식품", []string{"사과"}, category.UpdateModeMerge))

		keywords, err := store.EnabledKeywords("식품", "")
		require.NoError(t, err)
		assert.Equal(t, []string{"사과", "제철과일"}, keywords)

		// 비어있는 소분류의 대체 결과에도 대분류 자신의 키워드가 포함되어야 한다.
		keywords, err = store.EnabledKeywords("식품", "음료")
		require.NoError(t, err)
		assert.Equal(t, []string{"사과", "제철과일"}, keywords)
	})

	t.Run("실패: 존재하지 않는 카테고리는 NotFound 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		_, err := store.EnabledKeywords("없는분류", "")
		assert.True(t, apperrors.Is(err, apperrors.NotFound))

		_, err = store.EnabledKeywords("식품", "없는소분류")
		assert.True(t, apperrors.Is(err, apperrors.NotFound))
	})
}

func TestStore_SetAllEnabled(t *testing.T) {
	t.Parallel()

	t.Run("성공: 일괄 활성화는 등록된 모든 키워드를 Enabled로 만든다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		require.NoError(t, store.ApplyDiscovered("식품", "음료", []string{"커피", "녹차"}, category.UpdateModeMerge))
		require.NoError(t, store.AddUserKeyword("식품", "음료", "유자차"))
		require.NoError(t, store.SetEnabled("식품", "음료", "커피", false))

		require.NoError(t, store.SetAllEnabled("식품", "음료", true))

		keywords, err := store.EnabledKeywords("식품", "음료")
		require.NoError(t, err)
		assert.Equal(t, []string{"녹차", "유자차", "커피"}, keywords)
	})

	t.Run("성공: 일괄 비활성화는 Enabled만 비우고 등록 집합은 유지한다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		require.NoError(t, store.ApplyDiscovered("식품", "음료", []string{"커피"}, category.UpdateModeMerge))

		require.NoError(t, store.SetAllEnabled("식품", "음료", false))

		node, err := store.Lookup("식품", "음료")
		require.NoError(t, err)
		sub := node.Subs["음료"]
		assert.Equal(t, []string{"커피"}, sub.Auto)
		assert.Empty(t, sub.Enabled)
	})

	t.Run("성공: 소분류를 생략하면 대분류 자신의 키워드가 대상이 된다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		require.NoError(t, store.AddUserKeyword("식품", "", "제철과일"))

		require.NoError(t, store.SetAllEnabled("식품", "", false))

		node, err := store.Lookup("식품", "")
		require.NoError(t, err)
		assert.Equal(t, []string{"제철과일"}, node.User)
		assert.Empty(t, node.Enabled)
	})

	t.Run("실패: 존재하지 않는 카테고리는 NotFound 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		err := store.SetAllEnabled("없는분류", "", true)
		assert.True(t, apperrors.Is(err, apperrors.NotFound))
	})
}

func TestStore_AddSubcategory(t *testing.T) {
	t.Parallel()

	t.Run("성공: 빈 키워드 집합을 가진 소분류가 추가되고 저장된다", func(t *testing.T) {
		t.Parallel()

		store, dir := newStore(t)

		require.NoError(t, store.AddSubcategory("식품", "건강식품"))

		subs, err := store.Subs("식품")
		require.NoError(t, err)
		assert.Contains(t, subs, "건강식품")

		// 재로드 후에도 추가된 소분류가 유지되어야 한다.
		snapshots, err := storage.NewFileSnapshotStore(dir, 3)
		require.NoError(t, err)
		reloaded, err := category.NewStore(snapshots)
		require.NoError(t, err)

		subs, err = reloaded.Subs("식품")
		require.NoError(t, err)
		assert.Contains(t, subs, "건강식품")
	})

	t.Run("실패: 이미 존재하는 소분류는 Conflict 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		err := store.AddSubcategory("식품", "음료")
		assert.True(t, apperrors.Is(err, apperrors.Conflict))
	})

	t.Run("실패: 존재하지 않는 대분류는 NotFound 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		err := store.AddSubcategory("없는분류", "음료")
		assert.True(t, apperrors.Is(err, apperrors.NotFound))
	})

	t.Run("실패: 빈 소분류 이름은 InvalidInput 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		err := store.AddSubcategory("식품", "")
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	})
}

func TestStore_AllKeywords(t *testing.T) {
	t.Parallel()

	t.Run("성공: 소분류의 Auto/User/Enabled 집합을 반환한다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		require.NoError(t, store.ApplyDiscovered("식품", "음료", []string{"커피"}, category.UpdateModeMerge))
		require.NoError(t, store.AddUserKeyword("식품", "음료", "유자차"))

		set, err := store.AllKeywords("식품", "음료", false)
		require.NoError(t, err)

		assert.Equal(t, []string{"커피"}, set.Auto)
		assert.Equal(t, []string{"유자차"}, set.User)
		assert.Equal(t, []string{"유자차", "커피"}, set.Enabled)
	})

	t.Run("성공: 소분류를 생략하면 대분류 자신과 전체 소분류의 집합별 합집합을 반환한다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		require.NoError(t, store.AddUserKeyword("식품", "", "제철과일"))
		require.NoError(t, store.ApplyDiscovered("식품", "음료", []string{"커피"}, category.UpdateModeMerge))
		require.NoError(t, store.ApplyDiscovered("식품", "신선식품", []string{"사과"}, category.UpdateModeMerge))

		set, err := store.AllKeywords("식품", "", false)
		require.NoError(t, err)

		assert.Equal(t, []string{"사과", "커피"}, set.Auto)
		assert.Equal(t, []string{"제철과일"}, set.User)
		assert.Equal(t, []string{"사과", "제철과일", "커피"}, set.Enabled)
	})

	t.Run("성공: 소분류의 Enabled가 비어있으면 대분류 전체의 합집합으로 대체한다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		require.NoError(t, store.ApplyDiscovered("식품", "신선식품", []string{"사과"}, category.UpdateModeMerge))

		set, err := store.AllKeywords("식품", "음료", false)
		require.NoError(t, err)

		assert.Empty(t, set.Auto)
		assert.Equal(t, []string{"사과"}, set.Enabled)
	})

	t.Run("성공: onlyEnabled는 Auto와 User를 비우고 Enabled만 반환한다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		require.NoError(t, store.ApplyDiscovered("식품", "음료", []string{"커피"}, category.UpdateModeMerge))

		set, err := store.AllKeywords("식품", "음료", true)
		require.NoError(t, err)

		assert.Empty(t, set.Auto)
		assert.Empty(t, set.User)
		assert.Equal(t, []string{"커피"}, set.Enabled)
	})

	t.Run("실패: 존재하지 않는 카테고리는 NotFound 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		_, err := store.AllKeywords("없는분류", "", false)
		assert.True(t, apperrors.Is(err, apperrors.NotFound))

		_, err = store.AllKeywords("식품", "없는소분류", false)
		assert.True(t, apperrors.Is(err, apperrors.NotFound))
	})
}

func TestStore_Stats(t *testing.T) {
	t.Parallel()

	t.Run("성공: 대분류와 소분류의 키워드 보유 현황을 집계한다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		base := store.Stats()
		assert.Equal(t, 9, base.Majors)
		assert.Positive(t, base.Subs)
		assert.Zero(t, base.AutoKeywords)

		require.NoError(t, store.ApplyDiscovered("식품", "음료", []string{"커피", "녹차"}, category.UpdateModeMerge))
		require.NoError(t, store.AddUserKeyword("식품", "", "제철과일"))
		require.NoError(t, store.AddSubcategory("식품", "건강식품"))

		stats := store.Stats()
		assert.Equal(t, base.Majors, stats.Majors)
		assert.Equal(t, base.Subs+1, stats.Subs)
		assert.Equal(t, 2, stats.AutoKeywords)
		assert.Equal(t, 1, stats.UserKeywords)
		assert.Equal(t, 3, stats.EnabledKeywords)
	})
}

func TestStore_Accessors(t *testing.T) {
	t.Parallel()

	t.Run("성공: Subs는 소분류 이름을 오름차순으로 반환한다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		subs, err := store.Subs("패션잡화")
		require.NoError(t, err)

		assert.Equal(t, []string{"가방", "신발", "패션소품"}, subs)
	})

	t.Run("성공: Lookup이 반환한 복사본 수정은 내부 상태에 영향을 주지 않는다", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		require.NoError(t, store.ApplyDiscovered("식품", "음료", []string{"커피"}, category.UpdateModeMerge))

		node, err := store.Lookup("식품", "음료")
		require.NoError(t, err)
		node.Subs["음료"].Enabled[0] = "변조된키워드"

		keywords, err := store.EnabledKeywords("식품", "음료")
		require.NoError(t, err)
		assert.Equal(t, []string{"커피"}, keywords)
	})
}
