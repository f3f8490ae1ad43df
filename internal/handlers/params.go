package handlers

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	errorz "github.com/rusty-replay/replay-be/internal/errors"
)

func pathID(c echo.Context, name string) (int32, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id < 1 {
		return 0, errorz.Validation(name + " must be a positive integer")
	}
	return int32(id), nil
}

func queryInt(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errorz.Validation(name + " must be an integer")
	}
	return n, nil
}

func queryTime(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, errorz.Validation(name + " must be an RFC3339 timestamp")
	}
	return &ts, nil
}

func queryBool(c echo.Context, name string) bool {
	return c.QueryParam(name) == "true"
}

// apiKey pulls the reporting key from the X-API-KEY header, falling back
// to the apiKey query parameter for clients that cannot set headers.
func apiKey(c echo.Context) string {
	if key := c.Request().Header.Get("X-API-KEY"); key != "" {
		return key
	}
	return c.QueryParam("apiKey")
}
