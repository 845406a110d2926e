package repositories

// Repositories holds all the repository instances
type Repositories struct {
	ProfileRepository *ProfileRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		ProfileRepository: NewProfileRepository(db),
	}
}
