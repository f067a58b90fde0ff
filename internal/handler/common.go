package handler // handler defines http handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticketing/internal/repository"
)

// dbTimeout bounds every store round-trip made by a handler.
const dbTimeout = 5 * time.Second

// validate checks request structs.  Field names in errors are the JSON
// names so they can be echoed back to clients.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// missingFields returns the JSON names of the fields that failed a
// `required` rule, in declaration order.
func missingFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			out = append(out, fe.Field())
		}
	}
	return out
}

// bindJSON decodes the request body into dst.  Wrong JSON types (a string
// capacity, a fractional quantity) fail here.
func bindJSON(c echo.Context, dst interface{}) error {
	return (&echo.DefaultBinder{}).BindBody(c, dst)
}

// errNullField is wrapped by bindPatch when a PATCH body sets a field to
// JSON null.  Columns are never cleared through PATCH.
var errNullField = errors.New("must not be null")

// bindPatch decodes a PATCH body into dst.  A decode failure is returned
// as is; an explicit null on any key is returned wrapped in errNullField
// naming the offending keys.
func bindPatch(c echo.Context, dst interface{}) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}
	c.Request().Body = io.NopCloser(bytes.NewReader(body))
	if err := bindJSON(c, dst); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if len(bytes.TrimSpace(body)) == 0 || json.Unmarshal(body, &raw) != nil {
		return nil
	}
	var nulls []string
	for k, v := range raw {
		if string(bytes.TrimSpace(v)) == "null" {
			nulls = append(nulls, k)
		}
	}
	if len(nulls) == 0 {
		return nil
	}
	sort.Strings(nulls)
	return fmt.Errorf("%s %w", strings.Join(nulls, ", "), errNullField)
}

// patchRejected answers a bindPatch error: 400 "invalid body" for
// undecodable JSON, 400 with details for null fields.
func patchRejected(c echo.Context, msg string, err error) error {
	if errors.Is(err, errNullField) {
		return failed(c, msg, err)
	}
	return invalidBody(c)
}

// parseID reads the :id path parameter.
func parseID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
}

func notFoundJSON(c echo.Context, what string) error {
	return c.JSON(http.StatusNotFound, echo.Map{"error": what + " not found"})
}

// failed reports a rolled-back mutation.  Unique-key conflicts surface
// as 409; everything else is a 400 carrying the cause in details.
func failed(c echo.Context, msg string, err error) error {
	if errors.Is(err, repository.ErrConflict) {
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg, "details": err.Error()})
}
