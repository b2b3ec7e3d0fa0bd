package persistence

import "time"

// UserModel represents a media owner in the database.
type UserModel struct {
	ID        string    `gorm:"primaryKey;size:64"`
	Username  string    `gorm:"column:username;size:255"`
	Shared    bool      `gorm:"column:shared;default:false"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (UserModel) TableName() string {
	return "users"
}

// TagModel represents a tag in the database. Titles carry a unique index;
// concurrent creates of the same title lose with a duplicate-key error.
type TagModel struct {
	ID        string    `gorm:"primaryKey;size:64"`
	Title     string    `gorm:"column:title;uniqueIndex;size:255"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName returns the table name.
func (TagModel) TableName() string {
	return "tags"
}

// ItemModel represents a saved media item in the database.
//
// Fetched metadata is present iff fetched_title is non-NULL. VectorRef is
// NULL until the similarity index accepts the item's embedding.
type ItemModel struct {
	ID                 string     `gorm:"primaryKey;size:64"`
	OwnerID            string     `gorm:"column:owner_id;index;size:64"`
	Link               string     `gorm:"column:link;size:2048"`
	Kind               string     `gorm:"column:kind;size:32"`
	Title              string     `gorm:"column:title;size:512"`
	FetchedTitle       *string    `gorm:"column:fetched_title;size:512"`
	FetchedDescription *string    `gorm:"column:fetched_description;type:text"`
	ThumbnailURL       *string    `gorm:"column:thumbnail_url;size:2048"`
	VectorRef          *string    `gorm:"column:vector_ref;index;size:64"`
	Tags               []TagModel `gorm:"many2many:item_tags;joinForeignKey:ItemID;joinReferences:TagID"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (ItemModel) TableName() string {
	return "items"
}
