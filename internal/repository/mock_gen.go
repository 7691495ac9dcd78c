// internal/repository/mock_gen.go
package repository

//go:generate mockgen -source=./check_run.go -destination=../mocks/mock_check_run_repository.go -package=mocks CheckRunRepositoryIface
