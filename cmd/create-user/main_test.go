package main

import (
	"bufio"
	"io"
	"strings"
	"testing"
	"time"

	"lg/calorie-tracker/internal/models"
)

func TestReadProfile(t *testing.T) {
	input := strings.Join([]string{
		"sam", "Sam", "", "",
		"1991-01-15", "male", "180", "75",
		"", "lose", "70", "",
		"secret",
	}, "\n") + "\n"

	u, password, err := readProfile(bufio.NewReader(strings.NewReader(input)), io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Username != "sam" || u.Email != nil || u.Gender != models.GenderMale {
		t.Errorf("identity = %+v", u)
	}
	if !u.BirthDate.Equal(time.Date(1991, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("birth date = %v", u.BirthDate)
	}
	if u.ActivityLevel != models.ActivityModerate || u.WeightGoal != models.WeightGoalLose {
		t.Errorf("activity/goal = %s/%s", u.ActivityLevel, u.WeightGoal)
	}
	if u.TargetWeightKG == nil || *u.TargetWeightKG != 70 || u.TargetRateKgPerWeek != 0.5 {
		t.Errorf("target = %v rate %v", u.TargetWeightKG, u.TargetRateKgPerWeek)
	}
	if password != "secret" {
		t.Errorf("password = %q", password)
	}
}

func TestReadProfile_Rejections(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"bad birth date", "sam\n\n\n\n15/01/1991\n"},
		{"bad height", "sam\n\n\n\n1991-01-15\nmale\ntall\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := readProfile(bufio.NewReader(strings.NewReader(tc.input)), io.Discard); err == nil {
				t.Error("expected error")
			}
		})
	}
}
