package trend

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/GaYoung-La/naver-shopping-trend/internal/service/provider/datalab"
)

// 키워드 트렌드 분류 라벨
const (
	LabelRising = "급상승"
	LabelNormal = "정상"
)

// KeywordTrend 키워드 하나의 조회 기간 내 검색량 변화 지표입니다.
//
// 검색량이 0에서 시작해 양수로 끝난 키워드의 PctChange는 +Inf입니다.
// +Inf는 정렬 기준으로만 쓰이며, JSON으로는 null로 직렬화됩니다 (MarshalJSON 참고).
type KeywordTrend struct {
	Keyword    string  `json:"keyword"`
	FirstRatio float64 `json:"first_ratio"`
	LastRatio  float64 `json:"last_ratio"`
	AbsChange  float64 `json:"abs_change"`
	PctChange  float64 `json:"pct_change"`
	AvgRatio   float64 `json:"avg_ratio"`
	Label      string  `json:"label"`
	Score      float64 `json:"score"`
}

// MarshalJSON 수치로 표현할 수 없는 변화율(±Inf)을 null로 직렬화합니다.
// encoding/json은 ±Inf 값을 직렬화하지 못하므로 그대로 내보내면 응답 전체가 실패합니다.
func (t KeywordTrend) MarshalJSON() ([]byte, error) {
	type alias KeywordTrend

	wrapper := struct {
		alias
		PctChange *float64 `json:"pct_change"`
	}{alias: alias(t)}

	if !math.IsInf(t.PctChange, 0) {
		wrapper.PctChange = &t.PctChange
	}

	return json.Marshal(wrapper)
}

// RankingEngine 키워드별 시계열을 변화량 기준으로 정렬하고 상위 topK개를 급상승으로 분류합니다.
type RankingEngine struct {
	topK int
}

// NewRankingEngine RankingEngine 객체를 생성하여 반환합니다.
// topK가 0 이하이면 모든 키워드가 정상으로 분류됩니다.
func NewRankingEngine(topK int) *RankingEngine {
	return &RankingEngine{
		topK: topK,
	}
}

// Rank 키워드별 시계열의 변화 지표를 계산하고 증가폭이 큰 순으로 정렬하여 반환합니다.
// 시계열이 비어있는 키워드는 결과에서 제외됩니다.
func (e *RankingEngine) Rank(series map[string][]datalab.RatioPoint) []KeywordTrend {
	rows := make([]KeywordTrend, 0, len(series))
	for keyword, points := range series {
		if len(points) == 0 {
			continue
		}

		first := points[0].Ratio
		last := points[len(points)-1].Ratio
		absChange := last - first

		var pctChange float64
		switch {
		case first > 0:
			pctChange = absChange / first * 100
		case last > 0:
			pctChange = math.Inf(1)
		default:
			pctChange = 0
		}

		var sum float64
		for _, point := range points {
			sum += point.Ratio
		}

		rows = append(rows, KeywordTrend{
			Keyword:    keyword,
			FirstRatio: first,
			LastRatio:  last,
			AbsChange:  absChange,
			PctChange:  pctChange,
			AvgRatio:   sum / float64(len(points)),
			Score:      RisingScore(false, 0, pctChange, absChange),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AbsChange != rows[j].AbsChange {
			return rows[i].AbsChange > rows[j].AbsChange
		}
		if rows[i].PctChange != rows[j].PctChange {
			return rows[i].PctChange > rows[j].PctChange
		}
		// 입력이 맵이므로 순회 순서에 결과가 좌우되지 않도록 키워드로 마지막 순서를 고정한다.
		return rows[i].Keyword < rows[j].Keyword
	})

	for i := range rows {
		if e.topK > 0 && i < e.topK {
			rows[i].Label = LabelRising
		} else {
			rows[i].Label = LabelNormal
		}
	}

	return rows
}
