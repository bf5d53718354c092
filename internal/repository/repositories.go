// Package repository holds the SQL behind the service layer. Lookups of a
// single row return (nil, nil) when the row does not exist; only driver
// failures are errors.
package repository

import (
	"github.com/deppfellow/defect-service/internal/server"
)

// Repositories groups every repository so services can be wired from one value.
type Repositories struct {
	Defect *DefectRepository
	User   *UserRepository
}

func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Defect: NewDefectRepository(s.DB.Pool),
		User:   NewUserRepository(s.DB.Pool),
	}
}
