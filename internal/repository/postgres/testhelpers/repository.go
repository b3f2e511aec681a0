package testhelpers

import (
	"github.com/accessibility-microservice/internal/domain/repository"
	"github.com/accessibility-microservice/internal/repository/postgres"
)

// HistoryRepository собирает репозиторий истории поверх тестовой базы
func (tdb *TestDB) HistoryRepository() repository.HistoryRepository {
	return postgres.NewHistoryRepository(postgres.NewDBForTest(tdb.DB, tdb.Logger), tdb.Logger)
}
