package navershopping

// SetBaseURL 테스트에서 API 엔드포인트를 로컬 테스트 서버로 교체합니다.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}
