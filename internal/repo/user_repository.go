package repo

import "github.com/rogerio-castellano/order-desk/internal/models"

type UserRepository interface {
	GetByUsername(username string) (models.User, error)
	GetByID(id int) (models.User, error)
	CreateUser(u models.User) (models.User, error)
}
