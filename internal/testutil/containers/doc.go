// Package containers manages Docker containers for integration tests via
// testcontainers-go. It currently provides a MySQL 8.0 container used to
// exercise the repository layer against a real server instead of sqlite.
//
// Tests using this package carry the "integration" build tag:
//
//	go test -tags=integration ./...
//
// A container is typically started once per package from TestMain and
// terminated after the run.
package containers
