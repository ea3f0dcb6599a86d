package seeder

// Defaults returns the demo data set for local development, in dependency order.
func Defaults(password string) []Seeder {
	return []Seeder{
		AccountsSeeder{Password: password},
		JobsSeeder{},
	}
}
