package category

// seedTemplate 저장된 스냅샷이 없을 때 사용하는 기본 카테고리 트리입니다.
// 카테고리 ID는 네이버 쇼핑의 실제 카테고리 체계를 따릅니다.
func seedTemplate() map[string]*MajorNode {
	majors := []*MajorNode{
		{
			Name:        "패션의류",
			CategoryID:  "50000000",
			SeedQueries: []string{"원피스", "티셔츠", "청바지"},
			Subs: map[string]*SubNode{
				"여성의류": {Name: "여성의류", CategoryID: "50000167"},
				"남성의류": {Name: "남성의류", CategoryID: "50000169"},
			},
		},
		{
			Name:        "패션잡화",
			CategoryID:  "50000001",
			SeedQueries: []string{"운동화", "가방", "지갑"},
			Subs: map[string]*SubNode{
				"신발":   {Name: "신발", CategoryID: "50000171"},
				"가방":   {Name: "가방", CategoryID: "50000172"},
				"패션소품": {Name: "패션소품", CategoryID: "50000175"},
			},
		},
		{
			Name:        "화장품/미용",
			CategoryID:  "50000002",
			SeedQueries: []string{"선크림", "립스틱", "토너"},
			Subs: map[string]*SubNode{
				"스킨케어":   {Name: "스킨케어", CategoryID: "50000190"},
				"색조메이크업": {Name: "색조메이크업", CategoryID: "50000192"},
			},
		},
		{
			Name:        "디지털/가전",
			CategoryID:  "50000003",
			SeedQueries: []string{"노트북", "이어폰", "모니터"},
			Subs: map[string]*SubNode{
				"노트북":  {Name: "노트북", CategoryID: "50000151"},
				"음향가전": {Name: "음향가전", CategoryID: "50000205"},
			},
		},
		{
			Name:        "출산/육아",
			CategoryID:  "50000005",
			SeedQueries: []string{"기저귀", "분유", "유모차"},
			Subs: map[string]*SubNode{
				"기저귀":   {Name: "기저귀", CategoryID: "50000217"},
				"유아동의류": {Name: "유아동의류", CategoryID: "50000220"},
			},
		},
		{
			Name:        "식품",
			CategoryID:  "50000006",
			SeedQueries: []string{"과일", "커피", "건강식품"},
			Subs: map[string]*SubNode{
				"신선식품": {Name: "신선식품", CategoryID: "50000225"},
				"음료":   {Name: "음료", CategoryID: "50000229"},
			},
		},
		{
			Name:        "스포츠/레저",
			CategoryID:  "50000007",
			SeedQueries: []string{"런닝화", "캠핑", "골프"},
			Subs: map[string]*SubNode{
				"캠핑":    {Name: "캠핑", CategoryID: "50000237"},
				"골프":    {Name: "골프", CategoryID: "50000238"},
				"스포츠의류": {Name: "스포츠의류", CategoryID: "50000239"},
			},
		},
		{
			Name:        "생활/건강",
			CategoryID:  "50000008",
			SeedQueries: []string{"세제", "영양제", "마스크"},
			Subs: map[string]*SubNode{
				"생활용품":   {Name: "생활용품", CategoryID: "50000245"},
				"건강관리용품": {Name: "건강관리용품", CategoryID: "50000251"},
			},
		},
		{
			Name:        "여가/생활편의",
			CategoryID:  "50000009",
			SeedQueries: []string{"여행", "공연", "꽃배달"},
			Subs: map[string]*SubNode{
				"여행/항공권": {Name: "여행/항공권", CategoryID: "50000259"},
				"e쿠폰":    {Name: "e쿠폰", CategoryID: "50000261"},
			},
		},
	}

	tree := make(map[string]*MajorNode, len(majors))
	for _, major := range majors {
		major.restoreInvariant()
		tree[major.Name] = major
	}

	return tree
}

// mergeSeedTemplate 템플릿에만 존재하는 카테고리를 트리에 추가합니다.
//
// 기존 카테고리의 키워드 데이터는 변경하지 않으며, 템플릿에서 제거된 카테고리도
// 트리에서 삭제하지 않습니다. 추가된 카테고리가 있으면 true를 반환합니다.
func mergeSeedTemplate(tree map[string]*MajorNode) bool {
	added := false

	for name, templateMajor := range seedTemplate() {
		major, ok := tree[name]
		if !ok {
			tree[name] = templateMajor
			added = true
			continue
		}

		if major.Subs == nil {
			major.Subs = make(map[string]*SubNode)
		}
		for subName, templateSub := range templateMajor.Subs {
			if _, ok := major.Subs[subName]; !ok {
				major.Subs[subName] = templateSub
				added = true
			}
		}
	}

	return added
}
