package api

const (
	ErrCodeRouteNotFound    = 1001
	ErrCodeMethodNotAllowed = 1002
)

type APIException struct {
	Code    int    `json:"-"`
	ErrCode int    `json:"errcode"`
	Msg     string `json:"msg"`
	Request string `json:"request"`
}

func (e *APIException) Error() string {
	return e.Msg
}

func NewAPIException(code int, errcode int, msg string) *APIException {
	return &APIException{
		Code:    code,
		ErrCode: errcode,
		Msg:     msg,
	}
}
