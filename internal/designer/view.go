package designer

import "uniformgen/internal/domain"

// DecideView picks the garment side for a request. A back position in either field
// wins; otherwise any front slot, or no slot at all, yields the front view.
func DecideView(namePos, numberPos domain.Position) domain.View {
	if namePos.IsBack() || numberPos.IsBack() {
		return domain.ViewBack
	}
	return domain.ViewFront
}
