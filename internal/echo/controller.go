package echo

import (
	"net/http"

	"xuni/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	Echo(c *gin.Context)
	EchoBatch(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// Echo answers with a single item, or with an array when tags fan it out
func (ctrl *controller) Echo(c *gin.Context) {
	var req EchoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, http.StatusBadRequest, response.ValidationFailure(err))
		return
	}

	env := response.Success[EchoResponse]().WithMessage("echoed")
	for _, item := range ctrl.service.Echo(req) {
		env.WithData(item)
	}
	response.RespondJSON(c, http.StatusOK, env)
}

// EchoBatch always answers with an array, one entry per request item
func (ctrl *controller) EchoBatch(c *gin.Context) {
	var req BatchEchoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, http.StatusBadRequest, response.ValidationFailure(err))
		return
	}

	results := make([]EchoResponse, 0, len(req.Items))
	for _, item := range req.Items {
		results = append(results, ctrl.service.Echo(item)...)
	}

	env := response.Success[EchoResponse]().WithMessage("echoed")
	env.SetItems(results)
	response.RespondJSON(c, http.StatusOK, env)
}
