package report

import "github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/domain/content"

type Generator interface {
	Generate(activities []content.Activity) ([]byte, error)
}
