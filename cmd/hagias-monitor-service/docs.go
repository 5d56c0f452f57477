package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           hagias-monitor-service API
// @version         1.0
// @description     HTTP API for the monitor layout dashboard: stored layouts, layout apply, and the live toast notification socket.
//
// @contact.name   hagias-monitor-service maintainers
// @contact.url    https://github.com/trolleyman/hagias-monitor-service
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
