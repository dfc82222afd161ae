package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
)

// requestFields reads the named fields as strings from either a JSON object
// body or form values. JSON numbers and booleans are converted to text.
func requestFields(c echo.Context, names ...string) (map[string]string, error) {
	fields := make(map[string]string, len(names))

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		var body map[string]any
		if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		for _, name := range names {
			value, err := cast.ToStringE(body[name])
			if err != nil {
				return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid value for "+name)
			}
			fields[name] = value
		}
		return fields, nil
	}

	for _, name := range names {
		fields[name] = c.FormValue(name)
	}
	return fields, nil
}
