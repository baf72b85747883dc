package memory

import (
	"context"

	"collabhub/internal/common"
	"collabhub/internal/domain/profile"
)

type ProfileRepository struct {
	store *Store
}

func NewProfileRepository(store *Store) *ProfileRepository {
	return &ProfileRepository{store: store}
}

func (r *ProfileRepository) Upsert(_ context.Context, person profile.Person) (*profile.Person, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	person = clonePerson(person)
	person.UpdatedAt = now
	for i := range s.people {
		if s.people[i].ID == person.ID {
			person.CreatedAt = s.people[i].CreatedAt
			s.people[i] = person
			out := clonePerson(person)
			return &out, nil
		}
	}
	if person.ID == "" {
		person.ID = common.NewUUID()
	}
	person.CreatedAt = now
	s.people = append(s.people, person)
	out := clonePerson(person)
	return &out, nil
}

func (r *ProfileRepository) GetByID(_ context.Context, id common.UUID) (*profile.Person, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, person := range s.people {
		if person.ID == id {
			out := clonePerson(person)
			return &out, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "profile not found", nil)
}

func (r *ProfileRepository) ListAll(_ context.Context) ([]profile.Person, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]profile.Person, 0, len(s.people))
	for _, person := range s.people {
		out = append(out, clonePerson(person))
	}
	return out, nil
}

func clonePerson(person profile.Person) profile.Person {
	person.Technologies = append([]string(nil), person.Technologies...)
	person.Positions = append([]string(nil), person.Positions...)
	return person
}
