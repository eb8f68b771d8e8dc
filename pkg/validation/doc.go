// Package validation은 환경설정 값 검증에 사용되는 공통 검증 함수들을 제공합니다.
//
// go-playground/validator의 커스텀 검증 함수 등록에 사용되며,
// 독립적으로도 호출할 수 있도록 순수 함수 형태로 작성되어 있습니다.
package validation
