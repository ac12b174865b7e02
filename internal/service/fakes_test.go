package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tteodorogustavo/athlos/internal/models"
	"github.com/tteodorogustavo/athlos/internal/repository"
	"github.com/tteodorogustavo/athlos/pkg/api"
)

// memStore is an in-memory stand-in for the postgres repositories. It keeps
// the relations the gorm preloads would fill in.
type memStore struct {
	mu         sync.Mutex
	nextID     uint
	users      map[uint]*models.User
	academias  map[uint]*models.Academia
	personais  map[uint]*models.PersonalTrainer
	alunos     map[uint]*models.Aluno
	exercicios map[uint]*models.Exercicio
	treinos    map[uint]*models.Treino
	clock      time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[uint]*models.User{},
		academias:  map[uint]*models.Academia{},
		personais:  map[uint]*models.PersonalTrainer{},
		alunos:     map[uint]*models.Aluno{},
		exercicios: map[uint]*models.Exercicio{},
		treinos:    map[uint]*models.Treino{},
		clock:      time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) repos() *repository.Repositories {
	return &repository.Repositories{
		Users:      memUsers{m},
		Academias:  memAcademias{m},
		Personais:  memPersonais{m},
		Alunos:     memAlunos{m},
		Exercicios: memExercicios{m},
		Treinos:    memTreinos{m},
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memStore) stamp() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func idsOf[T any](items map[uint]T) []uint {
	ids := make([]uint, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func eq(p *uint, v uint) bool     { return p == nil || *p == v }
func eqPtr(p *uint, v *uint) bool { return p == nil || (v != nil && *p == *v) }
func ptr[T any](v T) *T           { return &v }

type memUsers struct{ m *memStore }

func (r memUsers) Create(_ context.Context, u *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u.ID = r.m.id()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.m.stamp()
	}
	c := *u
	r.m.users[u.ID] = &c
	return nil
}

func (r memUsers) FindByID(_ context.Context, id uint) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memUsers) UsernameExists(_ context.Context, username string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r memUsers) FindAll(_ context.Context) ([]*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.User
	for _, id := range idsOf(r.m.users) {
		c := *r.m.users[id]
		out = append(out, &c)
	}
	return out, nil
}

func (r memUsers) Update(_ context.Context, u *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c := *u
	r.m.users[u.ID] = &c
	return nil
}

func (r memUsers) Deactivate(_ context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if u, ok := r.m.users[id]; ok {
		u.IsActive = false
	}
	return nil
}

func (r memUsers) Count(_ context.Context, f repository.UserFilter) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, u := range r.m.users {
		if f.UserType != nil && u.UserType != *f.UserType {
			continue
		}
		if f.Active != nil && u.IsActive != *f.Active {
			continue
		}
		if !eqPtr(f.AcademiaID, u.AcademiaID) {
			continue
		}
		n++
	}
	return n, nil
}

func (r memUsers) CountPersonaisByAcademia(_ context.Context, ids []uint) (map[uint]int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := map[uint]int64{}
	for _, u := range r.m.users {
		if u.UserType == api.UserTypePersonal && u.AcademiaID != nil {
			out[*u.AcademiaID]++
		}
	}
	return out, nil
}

type memAcademias struct{ m *memStore }

func (r memAcademias) match(a *models.Academia, f repository.AcademiaFilter) bool {
	if !eq(f.ID, a.ID) {
		return false
	}
	if f.PersonalID != nil {
		for _, al := range r.m.alunos {
			if eqPtr(f.PersonalID, al.PersonalResponsavelID) && al.AcademiaID != nil && *al.AcademiaID == a.ID {
				return true
			}
		}
		return false
	}
	return true
}

func (r memAcademias) Create(_ context.Context, a *models.Academia) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a.ID = r.m.id()
	a.CreatedAt = r.m.stamp()
	c := *a
	r.m.academias[a.ID] = &c
	return nil
}

func (r memAcademias) FindByID(_ context.Context, id uint, f repository.AcademiaFilter) (*models.Academia, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.academias[id]
	if !ok || !r.match(a, f) {
		return nil, repository.ErrNotFound
	}
	c := *a
	return &c, nil
}

func (r memAcademias) FindAll(_ context.Context, f repository.AcademiaFilter) ([]*models.Academia, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Academia
	for _, id := range idsOf(r.m.academias) {
		if a := r.m.academias[id]; r.match(a, f) {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r memAcademias) FindByCNPJ(_ context.Context, cnpj string) (*models.Academia, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, a := range r.m.academias {
		if a.CNPJ == cnpj {
			c := *a
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memAcademias) Update(_ context.Context, a *models.Academia) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c := *a
	r.m.academias[a.ID] = &c
	return nil
}

func (r memAcademias) Delete(_ context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.academias[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.m.academias, id)
	return nil
}

func (r memAcademias) Count(ctx context.Context, f repository.AcademiaFilter) (int64, error) {
	all, _ := r.FindAll(ctx, f)
	return int64(len(all)), nil
}

type memPersonais struct{ m *memStore }

func (r memPersonais) load(p *models.PersonalTrainer) *models.PersonalTrainer {
	c := *p
	if u, ok := r.m.users[p.UserID]; ok {
		c.User = *u
	}
	return &c
}

func (r memPersonais) FirstOrCreate(_ context.Context, p *models.PersonalTrainer) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if existing, ok := r.m.personais[p.UserID]; ok {
		*p = *existing
		return nil
	}
	c := *p
	r.m.personais[p.UserID] = &c
	return nil
}

func (r memPersonais) FindByUserID(_ context.Context, id uint, f repository.PersonalFilter) (*models.PersonalTrainer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.personais[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := r.load(p)
	if !eqPtr(f.AcademiaID, out.User.AcademiaID) {
		return nil, repository.ErrNotFound
	}
	return out, nil
}

func (r memPersonais) FindAll(_ context.Context, f repository.PersonalFilter) ([]*models.PersonalTrainer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.PersonalTrainer
	for _, id := range idsOf(r.m.personais) {
		p := r.load(r.m.personais[id])
		if eqPtr(f.AcademiaID, p.User.AcademiaID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memPersonais) CREFTaken(_ context.Context, cref string, except uint) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, p := range r.m.personais {
		if p.CREF == cref && p.UserID != except {
			return true, nil
		}
	}
	return false, nil
}

func (r memPersonais) Update(_ context.Context, p *models.PersonalTrainer) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c := *p
	c.User = models.User{}
	r.m.personais[p.UserID] = &c
	return nil
}

func (r memPersonais) Delete(_ context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.personais, id)
	for _, a := range r.m.alunos {
		if eqPtr(&id, a.PersonalResponsavelID) {
			a.PersonalResponsavelID = nil
		}
	}
	return nil
}

func (r memPersonais) Count(ctx context.Context, f repository.PersonalFilter) (int64, error) {
	all, _ := r.FindAll(ctx, f)
	return int64(len(all)), nil
}

type memAlunos struct{ m *memStore }

func (r memAlunos) load(a *models.Aluno) *models.Aluno {
	c := *a
	if u, ok := r.m.users[a.UserID]; ok {
		c.User = *u
	}
	if a.AcademiaID != nil {
		if ac, ok := r.m.academias[*a.AcademiaID]; ok {
			cc := *ac
			c.Academia = &cc
		}
	}
	if a.PersonalResponsavelID != nil {
		if p, ok := r.m.personais[*a.PersonalResponsavelID]; ok {
			c.PersonalResponsavel = memPersonais{r.m}.load(p)
		}
	}
	return &c
}

func (r memAlunos) match(a *models.Aluno, f repository.AlunoFilter) bool {
	return eq(f.UserID, a.UserID) && eqPtr(f.PersonalID, a.PersonalResponsavelID) && eqPtr(f.AcademiaID, a.AcademiaID)
}

func (r memAlunos) FirstOrCreate(_ context.Context, a *models.Aluno) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if existing, ok := r.m.alunos[a.UserID]; ok {
		*a = *existing
		return nil
	}
	c := *a
	r.m.alunos[a.UserID] = &c
	return nil
}

func (r memAlunos) FindByUserID(_ context.Context, id uint, f repository.AlunoFilter) (*models.Aluno, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.alunos[id]
	if !ok || !r.match(a, f) {
		return nil, repository.ErrNotFound
	}
	return r.load(a), nil
}

func (r memAlunos) FindAll(_ context.Context, f repository.AlunoFilter) ([]*models.Aluno, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Aluno
	for _, id := range idsOf(r.m.alunos) {
		if a := r.m.alunos[id]; r.match(a, f) {
			out = append(out, r.load(a))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].User.CreatedAt.After(out[j].User.CreatedAt) })
	return out, nil
}

func (r memAlunos) Update(_ context.Context, a *models.Aluno) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c := *a
	c.User, c.Academia, c.PersonalResponsavel = models.User{}, nil, nil
	r.m.alunos[a.UserID] = &c
	return nil
}

func (r memAlunos) Delete(_ context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.alunos, id)
	for tid, t := range r.m.treinos {
		if t.AlunoID == id {
			delete(r.m.treinos, tid)
		}
	}
	return nil
}

func (r memAlunos) Count(ctx context.Context, f repository.AlunoFilter) (int64, error) {
	all, _ := r.FindAll(ctx, f)
	return int64(len(all)), nil
}

func (r memAlunos) CountByPersonal(_ context.Context, _ []uint) (map[uint]int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := map[uint]int64{}
	for _, a := range r.m.alunos {
		if a.PersonalResponsavelID != nil {
			out[*a.PersonalResponsavelID]++
		}
	}
	return out, nil
}

func (r memAlunos) CountByAcademia(_ context.Context, _ []uint) (map[uint]int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := map[uint]int64{}
	for _, a := range r.m.alunos {
		if a.AcademiaID != nil {
			out[*a.AcademiaID]++
		}
	}
	return out, nil
}

type memExercicios struct{ m *memStore }

func (r memExercicios) FindAll(_ context.Context) ([]*models.Exercicio, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Exercicio
	for _, id := range idsOf(r.m.exercicios) {
		out = append(out, r.m.exercicios[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out, nil
}

func (r memExercicios) FindByID(_ context.Context, id uint) (*models.Exercicio, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	e, ok := r.m.exercicios[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return e, nil
}

func (r memExercicios) FindByIDs(_ context.Context, ids []uint) ([]*models.Exercicio, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Exercicio
	for _, id := range ids {
		if e, ok := r.m.exercicios[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r memExercicios) FindByCategoria(ctx context.Context, cat string) ([]*models.Exercicio, error) {
	all, _ := r.FindAll(ctx)
	var out []*models.Exercicio
	for _, e := range all {
		if e.Category != nil && strings.EqualFold(*e.Category, cat) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r memExercicios) Categorias(ctx context.Context) ([]string, error) {
	all, _ := r.FindAll(ctx)
	seen := map[string]bool{}
	var out []string
	for _, e := range all {
		if e.Category != nil && *e.Category != "" && !seen[*e.Category] {
			seen[*e.Category] = true
			out = append(out, *e.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r memExercicios) Upsert(_ context.Context, e *models.Exercicio) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, existing := range r.m.exercicios {
		if existing.Nome == e.Nome {
			e.ID = id
			r.m.exercicios[id] = e
			return false, nil
		}
	}
	e.ID = r.m.id()
	r.m.exercicios[e.ID] = e
	return true, nil
}

func (r memExercicios) Count(_ context.Context) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return int64(len(r.m.exercicios)), nil
}

type memTreinos struct{ m *memStore }

func (r memTreinos) load(t *models.Treino) *models.Treino {
	c := *t
	if a, ok := r.m.alunos[t.AlunoID]; ok {
		c.Aluno = *memAlunos{r.m}.load(a)
	}
	if t.PersonalCriadorID != nil {
		if p, ok := r.m.personais[*t.PersonalCriadorID]; ok {
			c.PersonalCriador = memPersonais{r.m}.load(p)
		}
	}
	c.Itens = make([]models.ItemTreino, len(t.Itens))
	for i, it := range t.Itens {
		if e, ok := r.m.exercicios[it.ExercicioID]; ok {
			it.Exercicio = *e
		}
		c.Itens[i] = it
	}
	return &c
}

func (r memTreinos) match(t *models.Treino, f repository.TreinoFilter) bool {
	if !eq(f.AlunoID, t.AlunoID) || !eqPtr(f.PersonalID, t.PersonalCriadorID) {
		return false
	}
	if f.AcademiaID != nil {
		a, ok := r.m.alunos[t.AlunoID]
		if !ok || !eqPtr(f.AcademiaID, a.AcademiaID) {
			return false
		}
	}
	if f.Since != nil && t.CreatedAt.Before(*f.Since) {
		return false
	}
	if f.Until != nil && !t.CreatedAt.Before(*f.Until) {
		return false
	}
	return true
}

func (r memTreinos) Create(_ context.Context, t *models.Treino) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t.ID = r.m.id()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = r.m.stamp()
	}
	for i := range t.Itens {
		t.Itens[i].ID = r.m.id()
		t.Itens[i].TreinoID = t.ID
	}
	c := *t
	c.Itens = append([]models.ItemTreino(nil), t.Itens...)
	r.m.treinos[t.ID] = &c
	return nil
}

func (r memTreinos) FindByID(_ context.Context, id uint, f repository.TreinoFilter) (*models.Treino, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t, ok := r.m.treinos[id]
	if !ok || !r.match(t, f) {
		return nil, repository.ErrNotFound
	}
	return r.load(t), nil
}

func (r memTreinos) FindAll(_ context.Context, f repository.TreinoFilter) ([]*models.Treino, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Treino
	for _, id := range idsOf(r.m.treinos) {
		if t := r.m.treinos[id]; r.match(t, f) {
			out = append(out, r.load(t))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memTreinos) Update(_ context.Context, t *models.Treino, replace bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cur := r.m.treinos[t.ID]
	c := *t
	if !replace {
		c.Itens = cur.Itens
	} else {
		c.Itens = append([]models.ItemTreino(nil), t.Itens...)
	}
	r.m.treinos[t.ID] = &c
	return nil
}

func (r memTreinos) Delete(_ context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.treinos[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.m.treinos, id)
	return nil
}

func (r memTreinos) Count(ctx context.Context, f repository.TreinoFilter) (int64, error) {
	all, _ := r.FindAll(ctx, f)
	return int64(len(all)), nil
}

func (r memTreinos) CountByAluno(_ context.Context, _ []uint) (map[uint]int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := map[uint]int64{}
	for _, t := range r.m.treinos {
		out[t.AlunoID]++
	}
	return out, nil
}

func (r memTreinos) CountByPersonal(_ context.Context, _ []uint) (map[uint]int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := map[uint]int64{}
	for _, t := range r.m.treinos {
		if t.PersonalCriadorID != nil {
			out[*t.PersonalCriadorID]++
		}
	}
	return out, nil
}
