package classroom

import "time"

type Course struct {
	Id            string
	Name          string
	Section       string
	AlternateLink string
}

type Announcement struct {
	Id            string
	Text          string
	UpdateTime    *time.Time
	AlternateLink string
}
