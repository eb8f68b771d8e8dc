package datalab

// RatioPoint 조회 기간 내 한 시점의 상대 검색량입니다.
// Ratio는 조회 기간 중 최댓값을 100으로 하는 상대값입니다.
type RatioPoint struct {
	Period string  `json:"period"`
	Ratio  float64 `json:"ratio"`
}

// SearchOptions 검색어 트렌드 조회 조건
type SearchOptions struct {
	// StartDate, EndDate 조회 기간 (YYYY-MM-DD)
	StartDate string
	EndDate   string

	// TimeUnit 집계 단위 ("date", "week", "month")
	TimeUnit string

	// Device 기기 필터 ("": 전체, "pc", "mo")
	Device string

	// Gender 성별 필터 ("": 전체, "m", "f")
	Gender string

	// Ages 연령대 필터 (빈 슬라이스: 전체)
	Ages []string
}

type keywordGroup struct {
	GroupName string   `json:"groupName"`
	Keywords  []string `json:"keywords"`
}

type searchTrendRequest struct {
	StartDate     string         `json:"startDate"`
	EndDate       string         `json:"endDate"`
	TimeUnit      string         `json:"timeUnit"`
	KeywordGroups []keywordGroup `json:"keywordGroups"`
	Device        string         `json:"device,omitempty"`
	Gender        string         `json:"gender,omitempty"`
	Ages          []string       `json:"ages,omitempty"`
}

type searchTrendResponse struct {
	Results []struct {
		Title string       `json:"title"`
		Data  []RatioPoint `json:"data"`
	} `json:"results"`
}

type categoryFilter struct {
	Name  string   `json:"name"`
	Param []string `json:"param"`
}

type shoppingInsightRequest struct {
	StartDate string           `json:"startDate"`
	EndDate   string           `json:"endDate"`
	TimeUnit  string           `json:"timeUnit"`
	Category  []categoryFilter `json:"category,omitempty"`
	Device    string           `json:"device,omitempty"`
	Gender    string           `json:"gender,omitempty"`
	Ages      []string         `json:"ages,omitempty"`
}
