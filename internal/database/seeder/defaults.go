package seeder

// Defaults lists the seeders bootstrap runs, in dependency order: resumes
// reference the starter dictionary version.
func Defaults() []Seeder {
	return []Seeder{
		DictionarySeeder{},
		ResumesSeeder{},
	}
}
