package handler

import (
	"time"

	"judgewatch/view"
)

var (
	// Presenter builds the views returned by the API.
	Presenter = view.New(nil)

	// ResultTTL is how long finished views stay in the redis cache.
	ResultTTL = 24 * time.Hour
)
