package validate

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"lacasa/internal/cart"
	"lacasa/internal/domain"
)

var (
	reID = regexp.MustCompile(`^[\p{L}0-9_-]{1,64}$`)
	reQ  = regexp.MustCompile(`^[\p{L}0-9 \-]+$`)

	once     sync.Once
	instance *validator.Validate
)

// Struct returns the shared validator with the extra "notblank" tag.
func Struct() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		instance = v
	})
	return instance
}

// Fields returns the names of the struct fields that failed, or nil when s is
// valid.
func Fields(s any) []string {
	err := Struct().Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fe.Field())
	}
	return out
}

// Q validates a search keyword: letters, digits, spaces and hyphens, cut to
// 50 runes.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if r := []rune(s); len(r) > 50 {
		s = strings.TrimSpace(string(r[:50]))
	}
	return s, reQ.MatchString(s)
}

// SetQty parses a quantity for an existing cart entry. Zero and negatives are
// allowed since they remove the entry. Capped at cart.MaxQuantity.
func SetQty(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return min(n, cart.MaxQuantity), true
}

// Delta accepts the +1/-1 steppers only.
func Delta(s string) (int, bool) {
	switch strings.TrimSpace(s) {
	case "1", "+1":
		return 1, true
	case "-1":
		return -1, true
	}
	return 0, false
}

// ID validates a simple resource identifier (product, size and line ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

func Category(s string) (domain.CategoryKey, bool) {
	return domain.ParseCategory(strings.TrimSpace(s))
}

// Name validates a displayable name (flavors, alt text) with a reasonable max
// length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len([]rune(s)) > 80 {
		return "", false
	}
	return s, true
}

// MediaRef accepts an image reference from the catalog: a rooted path with no
// traversal and no scheme.
func MediaRef(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "/") || strings.HasPrefix(s, "//") || len(s) > 200 {
		return "", false
	}
	if strings.Contains(s, "..") || strings.ContainsAny(s, "\x00\\:") {
		return "", false
	}
	return s, true
}
