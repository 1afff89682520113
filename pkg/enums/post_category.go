package enums

import "fmt"

// PostCategory distinguishes long-form blog entries from short news items.
type PostCategory string

const (
	PostCategoryBlog PostCategory = "blog"
	PostCategoryNews PostCategory = "news"
)

var validPostCategories = []PostCategory{
	PostCategoryBlog,
	PostCategoryNews,
}

// IsValid reports whether the value is a known PostCategory.
func (c PostCategory) IsValid() bool {
	for _, candidate := range validPostCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParsePostCategory converts raw input into a PostCategory.
func ParsePostCategory(value string) (PostCategory, error) {
	for _, candidate := range validPostCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid post category %q", value)
}
