package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand"
	"strings"

	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"github.com/shopspring/decimal"
)

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func randomIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		panic(err)
	}
	return int(v.Int64())
}

func GenerateRandomPassword(length int) string {
	password := make([]rune, length)
	for i := range password {
		password[i] = letters[randomIndex(len(letters))]
	}
	return string(password)
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", randomIndex(1000000))
}

// GenerateTempPassword derives a readable temporary password from the employee's first name.
func GenerateTempPassword(name string) string {
	prefix := "user"
	if fields := strings.Fields(name); len(fields) > 0 {
		prefix = strings.ToLower(fields[0])
		if len(prefix) > 5 {
			prefix = prefix[:5]
		}
	}
	suffix := make([]rune, 6)
	hex := []rune("0123456789abcdef")
	for i := range suffix {
		suffix[i] = hex[randomIndex(len(hex))]
	}
	return prefix + "-" + string(suffix)
}

var firstNames = []string{
	"alex", "bailey", "casey", "devon", "elliot", "finley", "harper", "indigo", "kai", "lex",
	"morgan", "nova", "owen", "phoebe", "quinn", "river", "sloane", "taylor", "ulises", "vida",
}

var lastNames = []string{
	"adams", "bennett", "carson", "diaz", "ellis", "fletcher", "garcia", "hayes", "iverson", "jenkins",
	"keane", "lawson", "maddox", "nguyen", "owens", "palmer", "quincy", "ramirez", "shan", "thorpe",
}

var locations = []string{
	"Boston HQ", "Cambridge Cafe", "Seaport Kitchen", "Back Bay Cafe", "Fenway Stand", "Harbor Bistro",
}

var employeeRoles = []string{"Barista", "Line Cook", "Prep Cook", "Host", "Server", "Cashier"}

func title(s string) string {
	return strings.ToUpper(s[:1]) + s[1:]
}

// GenerateRandomEmployee builds an individual contributor reporting to managerID.
// seq keeps generated emails unique within one run.
func GenerateRandomEmployee(password string, seq int, managerID *string) (*domain.Employee, error) {
	first := firstNames[mrand.Intn(len(firstNames))]
	last := lastNames[mrand.Intn(len(lastNames))]

	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &domain.Employee{
		Name:         title(first) + " " + title(last),
		Email:        fmt.Sprintf("%s.%s%d@example.com", first, last, seq),
		Role:         employeeRoles[mrand.Intn(len(employeeRoles))],
		Location:     locations[mrand.Intn(len(locations))],
		HourlyRate:   decimal.NewFromInt(int64(16 + mrand.Intn(15))),
		Eligible:     true,
		Active:       mrand.Intn(20) != 0,
		ManagerID:    managerID,
		PasswordHash: passwordHash,
	}, nil
}
