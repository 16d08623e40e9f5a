package dto

// LookupRequest - входящий запрос на поиск (query-параметры или path-параметры)
type LookupRequest struct {
	Action    string `json:"action" validate:"required,oneof=getCountries getGovernorates getJudiciaries"`
	CountryID string `json:"countryId,omitempty" validate:"required_if=Action getGovernorates"`
	RegionID  string `json:"regionId,omitempty" validate:"required_if=Action getJudiciaries"`
}
