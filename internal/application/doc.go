// Package application provides application initialization and dependency wiring.
// It builds the AWS SDK configuration, the Parameter Store and Secrets Manager
// clients, the HTTP handlers and router, and the HTTP server, keeping the main
// package focused on CLI parsing and orchestration.
package application
