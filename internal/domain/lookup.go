package domain

// Action - селектор upstream запроса
type Action string

const (
	ActionGetCountries    Action = "getCountries"
	ActionGetGovernorates Action = "getGovernorates"
	ActionGetJudiciaries  Action = "getJudiciaries"
)

// Actions - все поддерживаемые значения Action
var Actions = []Action{
	ActionGetCountries,
	ActionGetGovernorates,
	ActionGetJudiciaries,
}

// ParseAction возвращает Action и false для неизвестного значения
func ParseAction(s string) (Action, bool) {
	for _, a := range Actions {
		if string(a) == s {
			return a, true
		}
	}
	return "", false
}

func (a Action) String() string {
	return string(a)
}

// RequiresID - нужен ли идентификатор родительского узла
func (a Action) RequiresID() bool {
	return a == ActionGetGovernorates || a == ActionGetJudiciaries
}

// IDParam - имя входного параметра с идентификатором
func (a Action) IDParam() string {
	switch a {
	case ActionGetGovernorates:
		return "countryId"
	case ActionGetJudiciaries:
		return "regionId"
	default:
		return ""
	}
}

// LookupRequest - провалидированный запрос к upstream.
// ID непрозрачен: не парсится как число и передаётся как есть.
type LookupRequest struct {
	Action Action
	ID     string
}

// LookupResult - сырой ответ upstream
type LookupResult struct {
	Body        []byte
	ContentType string
}
