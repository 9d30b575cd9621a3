package hierarchy

import (
	"context"
	"fmt"
)

// DirectSupervisors returns the active supervisors of employeeID.
func (s *HierarchyServiceImpl) DirectSupervisors(ctx context.Context, employeeID string) (map[string]struct{}, error) {
	ids, err := s.directory.ListDirectSupervisorIDs(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list direct supervisors: %w", err)
	}
	return toSet(ids), nil
}

// DirectSubordinates is the inverse of DirectSupervisors: empty when supervisorID is inactive.
func (s *HierarchyServiceImpl) DirectSubordinates(ctx context.Context, supervisorID string) (map[string]struct{}, error) {
	ids, err := s.directory.ListDirectSubordinateIDs(ctx, supervisorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list direct subordinates: %w", err)
	}
	return toSet(ids), nil
}

// TransitiveSubordinates walks DirectSubordinates depth-first. The start node is
// never part of the result, and cycles terminate because every node is expanded once.
func (s *HierarchyServiceImpl) TransitiveSubordinates(ctx context.Context, supervisorID string) (map[string]struct{}, error) {
	visited := map[string]struct{}{supervisorID: {}}
	result := make(map[string]struct{})
	if err := s.walk(ctx, supervisorID, visited, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *HierarchyServiceImpl) walk(ctx context.Context, id string, visited, result map[string]struct{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subs, err := s.DirectSubordinates(ctx, id)
	if err != nil {
		return err
	}
	for _, sub := range setKeys(subs) {
		if _, seen := visited[sub]; seen {
			continue
		}
		visited[sub] = struct{}{}
		result[sub] = struct{}{}
		if err := s.walk(ctx, sub, visited, result); err != nil {
			return err
		}
	}
	return nil
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
