package models

type Role struct {
	ID   uint   `gorm:"column:id_role;primaryKey;autoIncrement" json:"id_role"`
	Name string `gorm:"unique;not null"                         json:"name"`
}

func (Role) TableName() string { return "roles" }

type Avatar struct {
	ID   uint   `gorm:"column:id_avatar;primaryKey;autoIncrement" json:"id_avatar"`
	Name string `gorm:"not null"                                  json:"name"`
}

func (Avatar) TableName() string { return "avatars" }

type User struct {
	ID           uint    `gorm:"column:id_user;primaryKey;autoIncrement" json:"id_user"`
	Username     string  `gorm:"unique;not null"                         json:"username"`
	PasswordHash string  `gorm:"column:password;not null"                json:"-"`
	RoleID       uint    `gorm:"column:id_role;not null"                 json:"-"`
	AvatarID     uint    `gorm:"column:id_avatar;not null"               json:"-"`
	RefreshToken *string `gorm:"column:refresh_token;type:text"          json:"-"`

	Role   Role   `gorm:"foreignKey:RoleID;references:ID"   json:"role"`
	Avatar Avatar `gorm:"foreignKey:AvatarID;references:ID" json:"avatar"`
}

func (User) TableName() string { return "users" }

// All lists the models migrated on boot.
func All() []any {
	return []any{&Role{}, &Avatar{}, &User{}}
}
