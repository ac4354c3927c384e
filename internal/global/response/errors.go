package response

var (
	ErrInvalidRequest  = newError(40000, "请求参数错误")
	ErrUnauthorized    = newError(40100, "无权限操作")
	ErrInvalidPassword = newError(40101, "密码错误")
	ErrTokenInvalid    = newError(40102, "登录状态无效")
	ErrNotFound        = newError(40400, "资源不存在")
	ErrMaxApplicants   = newError(40900, "项目人数已满")
	ErrTooManyAttempts = newError(42900, "尝试次数过多，请稍后再试")
	ErrDatabase        = newError(50000, "数据库错误")
	ErrInternal        = newError(50001, "服务器内部错误")
)
