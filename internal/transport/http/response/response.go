package response

import "github.com/gin-gonic/gin"

const (
	CodeOK                 = 0
	CodeBadRequest         = 40000
	CodeUnauthorized       = 40100
	CodeInvalidCredentials = 40101
	CodePostNotFound       = 40401
	CodeUserNotFound       = 40402
	CodeEmailExists        = 40901
	CodeValidationFailed   = 42200
	CodeInternalServer     = 50000
)

type APIResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(200, APIResponse{
		Code:    CodeOK,
		Message: "ok",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, APIResponse{
		Code:    CodeOK,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, httpStatus, code int, message string) {
	c.JSON(httpStatus, APIResponse{
		Code:    code,
		Message: message,
	})
}

func ValidationFailed(c *gin.Context, fields map[string]string) {
	c.JSON(422, APIResponse{
		Code:    CodeValidationFailed,
		Message: "validation failed",
		Errors:  fields,
	})
}
