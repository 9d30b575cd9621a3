package hierarchy

import "context"

// CanReview reports whether supervisorID sits anywhere above employeeID.
func (s *HierarchyServiceImpl) CanReview(ctx context.Context, supervisorID, employeeID string) (bool, error) {
	if supervisorID == "" || employeeID == "" {
		return false, nil
	}

	direct, err := s.DirectSupervisors(ctx, employeeID)
	if err != nil {
		return false, err
	}
	if _, ok := direct[supervisorID]; ok {
		return true, nil
	}

	all, err := s.TransitiveSubordinates(ctx, supervisorID)
	if err != nil {
		return false, err
	}
	_, ok := all[employeeID]
	return ok, nil
}
