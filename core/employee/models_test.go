package employee

import "testing"

func TestEmployee_skills(t *testing.T) {
	emp := Employee{Name: "Dilkini", Skills: []string{"Go", "PostgreSQL"}}

	if !emp.HasSkill("go") {
		t.Error("HasSkill() should match case-insensitively")
	}
	if emp.HasSkill("Postgre") {
		t.Error("HasSkill() should not match a skill prefix")
	}
	if !emp.SharesSkillWith([]string{"React", "PostgreSQL"}) {
		t.Error("SharesSkillWith() should match on a single shared skill")
	}
	if emp.SharesSkillWith([]string{"React", "CSS"}) {
		t.Error("SharesSkillWith() matched with no shared skill")
	}
}

func TestEmployee_OnBench(t *testing.T) {
	if !(Employee{}).OnBench() {
		t.Error("employee with no projects should be on the bench")
	}
	if (Employee{Projects: []string{"Website Redesign"}}).OnBench() {
		t.Error("employee with an active project should not be on the bench")
	}
}

func TestQueryFilter_Match(t *testing.T) {
	dilkini := Employee{ID: 1001, Name: "Dilkini", Title: "Software Engineer", Skills: []string{"Go", "PostgreSQL"}}
	asitha := Employee{ID: 1002, Name: "Asitha", Title: "Frontend Developer", Skills: []string{"React"}, Projects: []string{"Website Redesign"}}

	tests := []struct {
		name   string
		filter QueryFilter
		emp    Employee
		want   bool
	}{
		{"empty filter matches", QueryFilter{}, dilkini, true},
		{"name substring, case-insensitive", QueryFilter{Search: "dilk"}, dilkini, true},
		{"title substring", QueryFilter{Search: "engineer"}, dilkini, true},
		{"no name or title match", QueryFilter{Search: "manager"}, dilkini, false},
		{"id substring", QueryFilter{Search: "100", SearchBy: SearchByID}, dilkini, true},
		{"id no match", QueryFilter{Search: "999", SearchBy: SearchByID}, dilkini, false},
		{"all filter skills required", QueryFilter{Skills: []string{"Go", "PostgreSQL"}}, dilkini, true},
		{"missing one filter skill", QueryFilter{Skills: []string{"Go", "React"}}, dilkini, false},
		{"bench only keeps bench", QueryFilter{BenchOnly: true}, dilkini, true},
		{"bench only drops assigned", QueryFilter{BenchOnly: true}, asitha, false},
		{"project skill match is disjunctive", QueryFilter{MatchSkills: []string{"React", "CSS"}}, asitha, true},
		{"project skill mismatch", QueryFilter{MatchSkills: []string{"Go"}}, asitha, false},
		{"predicates combine", QueryFilter{Search: "asi", MatchSkills: []string{"React"}}, asitha, true},
		{"predicates combine and fail", QueryFilter{Search: "asi", BenchOnly: true}, asitha, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Match(tt.emp); got != tt.want {
				t.Errorf("Match() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestQueryFilter_IsEmpty(t *testing.T) {
	if !(&QueryFilter{SearchBy: SearchByID}).IsEmpty() {
		t.Error("search_by alone should not activate the filter")
	}
	if (&QueryFilter{BenchOnly: true}).IsEmpty() {
		t.Error("bench filter should activate the filter")
	}
	if (&QueryFilter{MatchSkills: []string{"Go"}}).IsEmpty() {
		t.Error("project skill match should activate the filter")
	}
}
