package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"

	"github.com/five82/shelf/internal/catalog"
)

type errorBody struct {
	Error string `json:"error"`
}

// respond writes v as JSON with a weak ETag, answering 304 when the client
// already holds the same body.
func respond(c *gin.Context, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorBody{Error: "encode response"})
		return
	}

	tag := etag(body)
	c.Header("ETag", tag)
	if matchesETag(c.GetHeader("If-None-Match"), tag) {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func etag(body []byte) string {
	return fmt.Sprintf(`W/"%016x"`, xxhash.Sum64(body))
}

func matchesETag(header, tag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || candidate == tag || "W/"+candidate == tag {
			return true
		}
	}
	return false
}

// fail maps err to a status: catalog 4xx responses pass through, anything
// else from upstream is a bad gateway.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	status := http.StatusBadGateway
	if reqErr, ok := catalog.AsRequestError(err); ok && reqErr.Status >= 400 && reqErr.Status < 500 {
		status = reqErr.Status
	}
	c.JSON(status, errorBody{Error: err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorBody{Error: msg})
}
