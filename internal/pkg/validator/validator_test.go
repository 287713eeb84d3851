package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // valid UUIDv7
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B", // valid UUIDv7 (uppercase)
	}
	invalid := []string{
		"123e4567-e89b-12d3-a456-426614174000", // not v7
		"123E4567-E89B-12D3-A456-426614174000", // not v7
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",     // missing dashes
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // invalid hex
		"",                                     // empty
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	valid := []string{"123", "0", "9876543210"}
	invalid := []string{"abc", "123a", "", "-123"}
	for _, s := range valid {
		if !IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = true, want false", s)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}
	if !IsInSlice("a", slice) {
		t.Errorf("IsInSlice('a') = false, want true")
	}
	if IsInSlice("d", slice) {
		t.Errorf("IsInSlice('d') = true, want false")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "phone", Message: "required"},
	}
	got := errs.Error()
	want := "email: invalid; phone: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "phone", Message: "required"},
	}
	got := errs.ToMap()
	want := map[string]string{"email": "invalid", "phone": "required"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestIsValidPersonName(t *testing.T) {
	valid := []string{"Rakoto", "Jean Marie", "Hérvé Andrianina", " Rasoa "}
	invalid := []string{"", "   ", "R2D2", "Jean_Marie", "Anne-Sophie", "rakoto@mail"}
	for _, name := range valid {
		assert.True(t, IsValidPersonName(name), name)
	}
	for _, name := range invalid {
		assert.False(t, IsValidPersonName(name), name)
	}
}

func TestIsValidClock(t *testing.T) {
	assert.True(t, IsValidClock("08:00"))
	assert.True(t, IsValidClock("23:59:59"))
	assert.False(t, IsValidClock("24:00"))
	assert.False(t, IsValidClock("8:00"))
	assert.False(t, IsValidClock("08:60"))
}

type sampleRequest struct {
	Name   string `json:"name" validate:"required,person_name"`
	Email  string `json:"email" validate:"required,email"`
	Start  string `json:"start_time" validate:"required,clock"`
	Salary int64  `json:"salary" validate:"gte=0"`
	Role   string `json:"role" validate:"oneof=user superuser admin"`
}

func TestStruct_TranslatesFieldErrors(t *testing.T) {
	err := Struct(sampleRequest{Name: "R2", Email: "nope", Start: "25:00", Salary: -1, Role: "root"})
	require.Error(t, err)

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := errs.ToMap()
	assert.Equal(t, "name must contain only letters and spaces", fields["name"])
	assert.Equal(t, "email must be a valid email address", fields["email"])
	assert.Equal(t, "start_time must be a time of day in HH:MM:SS format", fields["start_time"])
	assert.Equal(t, "salary must be greater than or equal to 0", fields["salary"])
	assert.Equal(t, "role must be one of: user, superuser, admin", fields["role"])
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(sampleRequest{Name: "Rasoa", Email: "rasoa@example.mg", Start: "08:00:00", Role: "user"})
	assert.NoError(t, err)
}

func TestValidationErrors_AddAndErr(t *testing.T) {
	var errs ValidationErrors
	assert.NoError(t, errs.Err())
	errs.Add("motif", "motif is required")
	assert.EqualError(t, errs.Err(), "motif: motif is required")
}
