package validator

import (
	"ctchen222/minimax-tic-tac-toe/internal/bot"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	// Initialize validation
	validate = validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterCustom(validate); err != nil {
		panic(err)
	}
}

func GetValidator() *validator.Validate {
	return validate
}

// RegisterCustom adds the game tags to v:
//
//	mark        "X" or "O", any case
//	cell        "X", "O" or "" (empty cell), any case
//	difficulty  "easy" or "hard", any case
func RegisterCustom(v *validator.Validate) error {
	if err := v.RegisterValidation("mark", func(fl validator.FieldLevel) bool {
		_, err := game.ParseMark(fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("cell", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		if s == "" {
			return true
		}
		_, err := game.ParseMark(s)
		return err == nil
	}); err != nil {
		return err
	}
	return v.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		_, err := bot.ParseDifficulty(fl.Field().String())
		return err == nil
	})
}

// BindGin adds the game tags to gin's request binding validator.
func BindGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return RegisterCustom(v)
}
