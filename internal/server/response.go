package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Response is the JSON envelope of every API reply
type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: http.StatusOK, Msg: "success", Data: data})
}

func created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: http.StatusCreated, Msg: "success", Data: data})
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Response{Code: status, Msg: msg})
}

// internalError logs err, counts it under errType and replies 500
func internalError(c *gin.Context, errType string, err error) {
	_ = c.Error(err)
	RecordError(errType)
	log.Error().Err(err).Str("type", errType).Str("path", c.Request.URL.Path).Msg("Request failed")
	fail(c, http.StatusInternalServerError, "internal server error")
}
