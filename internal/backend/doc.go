// Package backend wraps the AWS SDK v2 Parameter Store and Secrets Manager
// clients behind small read-only interfaces. Both clients are pointed at a
// configurable endpoint (LocalStack by default) with static credentials, and
// every failure is reported as a *ClientError carrying the backend's own text.
package backend
