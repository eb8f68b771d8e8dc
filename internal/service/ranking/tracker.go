package ranking

import (
	"sort"
	"time"

	apperrors "github.com/GaYoung-La/naver-shopping-trend/internal/pkg/errors"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/provider/navershopping"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/storage"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/trend"
	applog "github.com/GaYoung-La/naver-shopping-trend/pkg/log"
)

const component = "ranking.tracker"

const snapshotDateLayout = "2006-01-02"

// BrandRank 집계 시점의 브랜드 하나의 순위입니다.
type BrandRank struct {
	Brand string `json:"brand"`
	Rank  int    `json:"rank"`
}

// Snapshot 키워드 하나의 인기순 검색 결과에서 집계한 브랜드별 순위입니다.
type Snapshot struct {
	Keyword string      `json:"keyword"`
	Date    string      `json:"date"`
	Ranks   []BrandRank `json:"ranks"`
}

// BrandChange 이전 집계 대비 브랜드 하나의 순위 변동입니다.
type BrandChange struct {
	Brand        string  `json:"brand"`
	CurrentRank  int     `json:"current_rank"`
	PreviousRank int     `json:"previous_rank,omitempty"`
	IsNew        bool    `json:"is_new"`
	RankDelta    int     `json:"rank_delta"`
	Score        float64 `json:"score"`
}

// Comparison 브랜드 순위 집계와 이전 집계 대비 변동 내역입니다.
type Comparison struct {
	Snapshot Snapshot      `json:"snapshot"`
	Changes  []BrandChange `json:"changes"`

	// FirstRun 이전 집계가 존재하지 않아 모든 브랜드가 신규로 분류되었는지 여부
	FirstRun bool `json:"first_run"`
}

// BuildSnapshot 검색 결과에서 브랜드별 최고 순위를 집계합니다.
// 브랜드는 상품명에서 추출하며, 추출에 실패하면 검색 API가 제공하는 브랜드 필드를 사용합니다.
func BuildSnapshot(keyword string, items []navershopping.Item) Snapshot {
	snapshot := Snapshot{
		Keyword: keyword,
		Date:    time.Now().Format(snapshotDateLayout),
	}

	seen := make(map[string]struct{})
	for i, item := range items {
		brand := ExtractBrand(item.Title)
		if brand == "" {
			brand = item.Brand
		}
		if brand == "" {
			continue
		}
		if _, ok := seen[brand]; ok {
			continue
		}
		seen[brand] = struct{}{}
		snapshot.Ranks = append(snapshot.Ranks, BrandRank{Brand: brand, Rank: i + 1})
	}

	return snapshot
}

// Compare 이전 집계 대비 브랜드별 순위 변동을 계산합니다.
// 이전 집계에 없던 브랜드는 신규로 분류되며, 순위 변동은 현재 순위에서 이전 순위를 뺀 값입니다(음수 = 상승).
func Compare(prev, cur Snapshot) []BrandChange {
	prevRanks := make(map[string]int, len(prev.Ranks))
	for _, rank := range prev.Ranks {
		prevRanks[rank.Brand] = rank.Rank
	}

	changes := make([]BrandChange, 0, len(cur.Ranks))
	for _, rank := range cur.Ranks {
		change := BrandChange{
			Brand:       rank.Brand,
			CurrentRank: rank.Rank,
		}

		if prevRank, ok := prevRanks[rank.Brand]; ok {
			change.PreviousRank = prevRank
			change.RankDelta = rank.Rank - prevRank
		} else {
			change.IsNew = true
		}
		change.Score = trend.RisingScore(change.IsNew, change.RankDelta, 0, 0)

		changes = append(changes, change)
	}

	return changes
}

// Tracker 키워드별 브랜드 순위 집계를 저장하고 이전 집계와 비교하여 급상승 브랜드를 찾아냅니다.
type Tracker struct {
	snapshots storage.SnapshotStore
	minRise   int

	logger *applog.Entry
}

// NewTracker Tracker 객체를 생성하여 반환합니다.
func NewTracker(snapshots storage.SnapshotStore, minRise int) *Tracker {
	if minRise < 1 {
		minRise = 1
	}

	return &Tracker{
		snapshots: snapshots,
		minRise:   minRise,

		logger: applog.WithComponent(component),
	}
}

// Update 현재 검색 결과로 브랜드 순위를 집계하고 직전 집계와 비교한 뒤 새 집계를 저장합니다.
// 직전 집계 파일은 저장소의 백업 정책에 따라 타임스탬프 백업으로 보존됩니다.
func (t *Tracker) Update(keyword string, items []navershopping.Item) (*Comparison, error) {
	if keyword == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "브랜드 순위를 집계할 키워드가 비어있습니다")
	}

	cur := BuildSnapshot(keyword, items)
	if len(cur.Ranks) == 0 {
		return nil, apperrors.Newf(apperrors.Empty, "검색 결과에서 브랜드를 추출하지 못했습니다(키워드: %s)", keyword)
	}

	comparison := &Comparison{Snapshot: cur}

	var prev Snapshot
	snapshotName := "BrandRanks " + keyword
	switch err := t.snapshots.Load(snapshotName, &prev); {
	case err == nil:
		comparison.Changes = Compare(prev, cur)
	case apperrors.Is(err, apperrors.NotFound):
		comparison.FirstRun = true
		comparison.Changes = Compare(Snapshot{}, cur)
	default:
		return nil, err
	}

	if err := t.snapshots.Save(snapshotName, cur); err != nil {
		return nil, err
	}

	t.logger.WithFields(applog.Fields{"keyword": keyword, "brands": len(cur.Ranks)}).Debug("브랜드 순위 집계 저장 완료")

	return comparison, nil
}

// RisingBrands 신규 진입했거나 순위가 최소 상승폭 이상 오른 브랜드만 점수 내림차순으로 반환합니다.
func (t *Tracker) RisingBrands(changes []BrandChange) []BrandChange {
	rising := make([]BrandChange, 0, len(changes))
	for _, change := range changes {
		if change.IsNew || -change.RankDelta >= t.minRise {
			rising = append(rising, change)
		}
	}

	sort.Slice(rising, func(i, j int) bool {
		if rising[i].Score != rising[j].Score {
			return rising[i].Score > rising[j].Score
		}
		return rising[i].Brand < rising[j].Brand
	})

	return rising
}
