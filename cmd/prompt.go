package cmd

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/zalepa/vacstat/config"
)

var errRequired = errors.New("обязательное поле")

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errRequired
	}
	return nil
}

// askInput asks for whichever of file and profession is still empty.
func (a *app) askInput(in *config.Input) error {
	var fields []huh.Field
	if in.File == "" {
		fields = append(fields, huh.NewInput().
			Title("Введите название файла").
			Value(&in.File).
			Validate(required))
	}
	if in.Profession == "" {
		fields = append(fields, huh.NewInput().
			Title("Введите название профессии").
			Value(&in.Profession).
			Validate(required))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).
		WithInput(a.stdin).
		WithOutput(a.stdout).
		Run()
}
