package core

// DBOrdering carries a single ORDER BY clause from the API layer down to the
// repositories. The allowed fields are whitelisted per repository.
type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}
