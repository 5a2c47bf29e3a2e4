package engine

import "github.com/aid-linh-pnp/test-question/internal/models"

// The four tables encode the fixed five-question decision trees. Reading them
// row by row: a state is consulted at its question number, a correct answer
// follows OnCorrect, an incorrect one OnIncorrect. Crossing a seniority
// boundary happens only from the extreme branches (level-5 correct, level-1
// incorrect); the LEVELx0 labels are failure markers for falling below the
// lowest reachable band, not real levels.

var tables = map[models.Seniority]*Table{
	models.Fresher: newTable(models.Fresher, map[string]Node{
		InitialState: {1, Advance(models.Fresher, 5, "F5"), Advance(models.Fresher, 1, "F1")},
		"F5":         {2, Advance(models.Junior, 3, "J3"), Advance(models.Fresher, 4, "F4")},
		"F1":         {2, Advance(models.Fresher, 2, "F2"), Fail("LEVELF0")},
		"F4":         {3, Terminate("LEVELF4"), Terminate("LEVELF3")},
		"F2":         {3, Terminate("LEVELF2"), Terminate("LEVELF1")},
		"J3":         {3, Advance(models.Junior, 5, "J5"), Advance(models.Junior, 1, "J1")},
		"J5":         {4, Terminate("LEVELJ5"), Advance(models.Junior, 4, "J4")},
		"J1":         {4, Advance(models.Junior, 2, "J2"), Terminate("LEVELF5")},
		"J4":         {5, Terminate("LEVELJ4"), Terminate("LEVELJ3")},
		"J2":         {5, Terminate("LEVELJ2"), Terminate("LEVELJ1")},
	}),

	models.Junior: newTable(models.Junior, map[string]Node{
		InitialState: {1, Advance(models.Junior, 5, "J5"), Advance(models.Junior, 1, "J1")},
		"J5":         {2, Advance(models.Middle, 3, "M3"), Advance(models.Junior, 4, "J4")},
		"J1":         {2, Advance(models.Junior, 2, "J2"), Advance(models.Fresher, 3, "F3")},
		"J4":         {3, Terminate("LEVELJ4"), Terminate("LEVELJ3")},
		"J2":         {3, Terminate("LEVELJ2"), Terminate("LEVELJ1")},
		"M3":         {3, Advance(models.Middle, 5, "M5"), Advance(models.Middle, 1, "M1")},
		"F3":         {3, Advance(models.Fresher, 5, "F5"), Advance(models.Fresher, 1, "F1")},
		"M5":         {4, Terminate("LEVELM5"), Advance(models.Middle, 4, "M4")},
		"M1":         {4, Advance(models.Middle, 2, "M2"), Terminate("LEVELJ5")},
		"F5":         {4, Terminate("LEVELF5"), Advance(models.Fresher, 4, "F4")},
		"F1":         {4, Advance(models.Fresher, 2, "F2"), Fail("LEVELF0")},
		"M4":         {5, Terminate("LEVELM4"), Terminate("LEVELM3")},
		"M2":         {5, Terminate("LEVELM2"), Terminate("LEVELM1")},
		"F4":         {5, Terminate("LEVELF4"), Terminate("LEVELF3")},
		"F2":         {5, Terminate("LEVELF2"), Terminate("LEVELF1")},
	}),

	models.Middle: newTable(models.Middle, map[string]Node{
		InitialState: {1, Advance(models.Middle, 5, "M5"), Advance(models.Middle, 1, "M1")},
		"M5":         {2, Advance(models.Senior, 3, "S3"), Advance(models.Middle, 4, "M4")},
		"M1":         {2, Advance(models.Middle, 2, "M2"), Advance(models.Junior, 3, "J3")},
		"M4":         {3, Terminate("LEVELM4"), Terminate("LEVELM3")},
		"M2":         {3, Terminate("LEVELM2"), Terminate("LEVELM1")},
		"S3":         {3, Advance(models.Senior, 5, "S5"), Advance(models.Senior, 1, "S1")},
		"J3":         {3, Advance(models.Junior, 5, "J5"), Advance(models.Junior, 1, "J1")},
		"S5":         {4, Terminate("LEVELS5"), Advance(models.Senior, 4, "S4")},
		"S1":         {4, Advance(models.Senior, 2, "S2"), Terminate("LEVELM5")},
		"J5":         {4, Terminate("LEVELJ5"), Advance(models.Junior, 4, "J4")},
		"J1":         {4, Advance(models.Junior, 2, "J2"), Fail("LEVELJ0")},
		"S4":         {5, Terminate("LEVELS4"), Terminate("LEVELS3")},
		"S2":         {5, Terminate("LEVELS2"), Terminate("LEVELS1")},
		"J4":         {5, Terminate("LEVELJ4"), Terminate("LEVELJ3")},
		"J2":         {5, Terminate("LEVELJ2"), Terminate("LEVELJ1")},
	}),

	models.Senior: newTable(models.Senior, map[string]Node{
		InitialState: {1, Advance(models.Senior, 5, "S5"), Advance(models.Senior, 1, "S1")},
		"S5":         {2, Terminate("LEVELS5"), Advance(models.Senior, 4, "S4")},
		"S1":         {2, Advance(models.Senior, 2, "S2"), Advance(models.Middle, 3, "M3")},
		"S4":         {3, Terminate("LEVELS4"), Terminate("LEVELS3")},
		"S2":         {3, Terminate("LEVELS2"), Terminate("LEVELS1")},
		"M3":         {3, Advance(models.Middle, 5, "M5"), Advance(models.Middle, 1, "M1")},
		"M5":         {4, Terminate("LEVELM5"), Advance(models.Middle, 4, "M4")},
		"M1":         {4, Advance(models.Middle, 2, "M2"), Fail("LEVELM0")},
		"M4":         {5, Terminate("LEVELM4"), Terminate("LEVELM3")},
		"M2":         {5, Terminate("LEVELM2"), Terminate("LEVELM1")},
	}),
}

func newTable(s models.Seniority, nodes map[string]Node) *Table {
	t := &Table{Seniority: s, nodes: nodes}
	if err := t.Validate(); err != nil {
		panic(err)
	}
	return t
}
