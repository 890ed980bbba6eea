package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Denn4ik2010/online-shop/shared/pagination"
	"github.com/Denn4ik2010/online-shop/shared/utils"
	"github.com/gin-gonic/gin"
)

// PageRequest is the page/pageSize/sortBy/order query shared by list
// endpoints.
type PageRequest struct {
	pagination.Params
	pagination.Sort
}

// normalizer is implemented by requests that clean their text fields before
// validation, so blank input fails required and min rules.
type normalizer interface {
	normalize()
}

func trimSpace(fields ...*string) {
	for _, f := range fields {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q", s)
}

// csvQuery reads a comma separated query value; repeated keys are merged.
func csvQuery(c *gin.Context, key string) []string {
	var out []string
	for _, v := range c.QueryArray(key) {
		out = append(out, utils.SplitCSV(v)...)
	}
	return out
}

func respondPage[T any](c *gin.Context, key string, page *pagination.Page[T]) {
	c.JSON(http.StatusOK, page.Envelope(key))
}
