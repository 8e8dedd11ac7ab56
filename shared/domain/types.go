package domain

import "github.com/lib/pq"

type (
	Email    = string
	Password = string
	UserId   = int64

	CategoryId = int64
	DishId     = int64
	MenuItemId = int64
	PosterId   = int64
	ImageId    = int64
	ContactId  = int64

	Points = pq.StringArray
)
