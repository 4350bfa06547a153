package main

// General API documentation for swaggo. Run `swag init -g cmd/bgremove/docs.go -o internal/docs` to regenerate.
//
// @title           bgremover preview API
// @version         1.0
// @description     Local preview UI for removing photo backgrounds.
//
// @contact.name   bgremover maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
