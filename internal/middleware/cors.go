package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS abre la API a la UI web (corre en otro origen) y corta los preflight.
var CORS = cors.Handler(cors.Options{
	AllowedOrigins: []string{"*"},
	AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	AllowedHeaders: []string{"Accept", "Content-Type", "Authorization", DeviceKeyHeader},
	MaxAge:         300,
})
