package service

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tteodorogustavo/athlos/internal/models"
	"github.com/tteodorogustavo/athlos/pkg/api"
)

// Chart colours, assigned in ranking order.
var palette = []string{"#ef4444", "#3b82f6", "#22c55e", "#f59e0b", "#8b5cf6", "#ec4899"}

var weekdays = []string{"Seg", "Ter", "Qua", "Qui", "Sex", "Sáb", "Dom"}

const (
	categoriaOutros     = "Outros"
	categoriaGeral      = "Geral"
	metaSemanal         = 5
	minutosPorExercicio = 3
)

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func pct(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return round1(part / total * 100)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// monthStarts returns the first instant of the last n calendar months,
// oldest first, ending with the month of now.
func monthStarts(now time.Time, n int) []time.Time {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		out[i] = first.AddDate(0, i-n+1, 0)
	}
	return out
}

// bucketMonths counts the timestamps falling in each month of starts.
func bucketMonths(starts []time.Time, times []time.Time) []int {
	counts := make([]int, len(starts))
	if len(starts) == 0 {
		return counts
	}
	end := starts[len(starts)-1].AddDate(0, 1, 0)
	for _, t := range times {
		if t.Before(starts[0]) || !t.Before(end) {
			continue
		}
		i := sort.Search(len(starts), func(i int) bool { return starts[i].After(t) }) - 1
		counts[i]++
	}
	return counts
}

// joinedBefore counts the timestamps strictly before each month ends.
func joinedBefore(starts []time.Time, times []time.Time) []int {
	counts := make([]int, len(starts))
	for i, s := range starts {
		end := s.AddDate(0, 1, 0)
		for _, t := range times {
			if t.Before(end) {
				counts[i]++
			}
		}
	}
	return counts
}

func treinoTimes(treinos []*models.Treino) []time.Time {
	out := make([]time.Time, len(treinos))
	for i, t := range treinos {
		out[i] = t.CreatedAt
	}
	return out
}

func filterSince(treinos []*models.Treino, since time.Time) []*models.Treino {
	var out []*models.Treino
	for _, t := range treinos {
		if !t.CreatedAt.Before(since) {
			out = append(out, t)
		}
	}
	return out
}

func filterBetween(treinos []*models.Treino, from, to time.Time) []*models.Treino {
	var out []*models.Treino
	for _, t := range treinos {
		if !t.CreatedAt.Before(from) && t.CreatedAt.Before(to) {
			out = append(out, t)
		}
	}
	return out
}

func countAtivos(treinos []*models.Treino) int {
	n := 0
	for _, t := range treinos {
		if t.Ativo {
			n++
		}
	}
	return n
}

func countItens(treinos []*models.Treino) int {
	n := 0
	for _, t := range treinos {
		n += len(t.Itens)
	}
	return n
}

// chronological returns a copy ordered oldest first.
func chronological(treinos []*models.Treino) []*models.Treino {
	out := append([]*models.Treino(nil), treinos...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

type tally struct {
	key   string
	extra string
	count int
}

// rank orders counts descending, then by key.
func rank(counts map[string]*tally, limit int) []*tally {
	out := make([]*tally, 0, len(counts))
	for _, t := range counts {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func exerciseTally(treinos []*models.Treino) map[string]*tally {
	counts := make(map[string]*tally)
	for _, t := range treinos {
		for i := range t.Itens {
			e := &t.Itens[i].Exercicio
			c, ok := counts[e.Nome]
			if !ok {
				c = &tally{key: e.Nome, extra: e.CategoryOr(categoriaOutros)}
				counts[e.Nome] = c
			}
			c.count++
		}
	}
	return counts
}

func categoryTally(treinos []*models.Treino) map[string]*tally {
	counts := make(map[string]*tally)
	for _, t := range treinos {
		for i := range t.Itens {
			cat := t.Itens[i].Exercicio.CategoryOr(categoriaOutros)
			c, ok := counts[cat]
			if !ok {
				c = &tally{key: cat}
				counts[cat] = c
			}
			c.count++
		}
	}
	return counts
}

func topExercicioCounts(treinos []*models.Treino, limit int) []api.ExercicioCount {
	ranked := rank(exerciseTally(treinos), limit)
	out := make([]api.ExercicioCount, 0, len(ranked))
	for _, t := range ranked {
		out = append(out, api.ExercicioCount{Nome: t.key, Total: t.count})
	}
	return out
}

func topExercicios(treinos []*models.Treino, limit int) []api.TopExercicio {
	ranked := rank(exerciseTally(treinos), limit)
	out := make([]api.TopExercicio, 0, len(ranked))
	for _, t := range ranked {
		out = append(out, api.TopExercicio{Exercicio: t.key, Vezes: t.count, Categoria: t.extra})
	}
	return out
}

func exercicioUsage(treinos []*models.Treino, limit int) []api.ExercicioUsage {
	ranked := rank(exerciseTally(treinos), limit)
	out := make([]api.ExercicioUsage, 0, len(ranked))
	for _, t := range ranked {
		out = append(out, api.ExercicioUsage{Exercicio: t.key, Categoria: t.extra, Usos: t.count})
	}
	return out
}

func categoryShares(treinos []*models.Treino) []api.CategoryShare {
	ranked := rank(categoryTally(treinos), len(palette))
	out := make([]api.CategoryShare, 0, len(ranked))
	for i, t := range ranked {
		out = append(out, api.CategoryShare{Nome: t.key, Valor: t.count, Cor: palette[i%len(palette)]})
	}
	return out
}

func categoryRanking(treinos []*models.Treino) []api.CategoryRank {
	ranked := rank(categoryTally(treinos), len(palette))
	out := make([]api.CategoryRank, 0, len(ranked))
	for i, t := range ranked {
		out = append(out, api.CategoryRank{Categoria: t.key, Total: t.count, Cor: palette[i%len(palette)]})
	}
	return out
}

func treinoNameRanking(treinos []*models.Treino, limit int) []api.NameCount {
	counts := make(map[string]*tally)
	for _, t := range treinos {
		c, ok := counts[t.NomeTreino]
		if !ok {
			c = &tally{key: t.NomeTreino}
			counts[t.NomeTreino] = c
		}
		c.count++
	}
	ranked := rank(counts, limit)
	out := make([]api.NameCount, 0, len(ranked))
	for _, t := range ranked {
		out = append(out, api.NameCount{Nome: t.key, Total: t.count})
	}
	return out
}

// weekdayFrequency counts workouts per weekday, Monday first.
func weekdayFrequency(treinos []*models.Treino) []api.WeekdayCount {
	counts := make([]int, 7)
	for _, t := range treinos {
		counts[(int(t.CreatedAt.Weekday())+6)%7]++
	}
	out := make([]api.WeekdayCount, 7)
	for i, dia := range weekdays {
		out[i] = api.WeekdayCount{Dia: dia, Alunos: counts[i]}
	}
	return out
}

// weeklyLoad averages the load of the three most used exercises in each of
// the last weeks, oldest week first.
func weeklyLoad(treinos []*models.Treino, now time.Time, weeks int) []api.WeekLoad {
	out := make([]api.WeekLoad, 0, weeks)
	for i := weeks - 1; i >= 0; i-- {
		from := now.AddDate(0, 0, -7*(i+1))
		to := now.AddDate(0, 0, -7*i)
		week := filterBetween(treinos, from, to)

		type acc struct {
			sum, n int
		}
		loads := make(map[string]*acc)
		for _, t := range week {
			for j := range t.Itens {
				it := &t.Itens[j]
				a, ok := loads[it.Exercicio.Nome]
				if !ok {
					a = &acc{}
					loads[it.Exercicio.Nome] = a
				}
				if it.CargaKg != nil {
					a.sum += *it.CargaKg
					a.n++
				}
			}
		}

		point := api.WeekLoad{"semana": "Sem " + strconv.Itoa(weeks-i)}
		for _, t := range rank(exerciseTally(week), 3) {
			a := loads[t.key]
			avg := 0.0
			if a.n > 0 {
				avg = round1(float64(a.sum) / float64(a.n))
			}
			point[truncateRunes(t.key, 10)] = avg
		}
		out = append(out, point)
	}
	return out
}

// alunoFrequency is the share of the weekly goal reached over days, capped
// at 100.
func alunoFrequency(treinos, days int) float64 {
	weeks := math.Max(float64(days)/7, 1)
	return math.Min(round1(float64(treinos)/weeks/metaSemanal*100), 100)
}

func alunoStats(alunos []*models.Aluno, treinos []*models.Treino, days int) []api.AlunoStats {
	byAluno := make(map[uint][]*models.Treino)
	for _, t := range treinos {
		byAluno[t.AlunoID] = append(byAluno[t.AlunoID], t)
	}
	out := make([]api.AlunoStats, 0, len(alunos))
	for _, a := range alunos {
		ts := byAluno[a.UserID]
		s := api.AlunoStats{
			ID:         a.UserID,
			Nome:       a.User.DisplayName(),
			Treinos:    len(ts),
			Frequencia: alunoFrequency(len(ts), days),
		}
		var last *models.Treino
		for _, t := range ts {
			if last == nil || t.CreatedAt.After(last.CreatedAt) {
				last = t
			}
		}
		if last != nil {
			d := last.CreatedAt.Format(api.DateLayout)
			s.UltimoTreino = &d
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Treinos > out[j].Treinos })
	return out
}

func meanFrequency(stats []api.AlunoStats) float64 {
	if len(stats) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range stats {
		sum += s.Frequencia
	}
	return round1(sum / float64(len(stats)))
}

// streakDays counts consecutive calendar days, ending today, on which at
// least one workout was created.
func streakDays(treinos []*models.Treino, now time.Time) int {
	days := make(map[time.Time]bool, len(treinos))
	for _, t := range treinos {
		days[startOfDay(t.CreatedAt.In(now.Location()))] = true
	}
	streak := 0
	for d := startOfDay(now); days[d]; d = d.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

// currentWeek counts workouts created since Monday of the week of now.
func currentWeek(treinos []*models.Treino, now time.Time) int {
	offset := (int(now.Weekday()) + 6) % 7
	monday := startOfDay(now).AddDate(0, 0, -offset)
	return len(filterSince(treinos, monday))
}

// loadProgress is the mean relative change, in percent, between the first
// and the last recorded load of every exercise with at least two loads.
func loadProgress(treinos []*models.Treino) float64 {
	type span struct {
		first, last, n int
	}
	spans := make(map[uint]*span)
	for _, t := range chronological(treinos) {
		for i := range t.Itens {
			it := &t.Itens[i]
			if it.CargaKg == nil || *it.CargaKg <= 0 {
				continue
			}
			s, ok := spans[it.ExercicioID]
			if !ok {
				s = &span{first: *it.CargaKg}
				spans[it.ExercicioID] = s
			}
			s.last = *it.CargaKg
			s.n++
		}
	}
	var sum float64
	var n int
	for _, s := range spans {
		if s.n < 2 {
			continue
		}
		sum += float64(s.last-s.first) / float64(s.first) * 100
		n++
	}
	if n == 0 {
		return 0
	}
	return round1(sum / float64(n))
}

// loadEvolution follows the load of the first exercises the student ever
// trained, over the workouts created since.
func loadEvolution(all []*models.Treino, since time.Time, limit int) []api.LoadEvolution {
	var order []uint
	names := make(map[uint]string)
	for _, t := range chronological(all) {
		for i := range t.Itens {
			it := &t.Itens[i]
			if _, ok := names[it.ExercicioID]; ok {
				continue
			}
			names[it.ExercicioID] = it.Exercicio.Nome
			order = append(order, it.ExercicioID)
		}
	}
	if len(order) > limit {
		order = order[:limit]
	}

	recent := chronological(filterSince(all, since))
	out := make([]api.LoadEvolution, 0, len(order))
	for _, id := range order {
		ev := api.LoadEvolution{Exercicio: names[id], Dados: []api.LoadPoint{}}
		for _, t := range recent {
			for i := range t.Itens {
				it := &t.Itens[i]
				if it.ExercicioID != id {
					continue
				}
				carga := 0
				if it.CargaKg != nil {
					carga = *it.CargaKg
				}
				ev.Dados = append(ev.Dados, api.LoadPoint{Data: t.CreatedAt.Format("02/01"), Carga: carga})
			}
		}
		out = append(out, ev)
	}
	return out
}

func categoryProgress(treinos []*models.Treino) []api.CategoryProgress {
	type acc struct {
		count, series, reps, cargaSum, cargaN int
	}
	accs := make(map[string]*acc)
	for _, t := range treinos {
		for i := range t.Itens {
			it := &t.Itens[i]
			cat := it.Exercicio.CategoryOr(categoriaOutros)
			a, ok := accs[cat]
			if !ok {
				a = &acc{}
				accs[cat] = a
			}
			a.count++
			a.series += it.Series
			a.reps += leadingInt(it.Repeticoes)
			if it.CargaKg != nil {
				a.cargaSum += *it.CargaKg
				a.cargaN++
			}
		}
	}
	counts := make(map[string]*tally, len(accs))
	for k, a := range accs {
		counts[k] = &tally{key: k, count: a.count}
	}
	out := make([]api.CategoryProgress, 0, len(accs))
	for _, t := range rank(counts, 0) {
		a := accs[t.key]
		media := 0.0
		if a.cargaN > 0 {
			media = round1(float64(a.cargaSum) / float64(a.cargaN))
		}
		out = append(out, api.CategoryProgress{
			Categoria:   t.key,
			Exercicios:  a.count,
			MediaCarga:  media,
			TotalSeries: a.series,
			TotalReps:   a.reps,
		})
	}
	return out
}

// history lists the newest workouts with up to five items each.
func history(treinos []*models.Treino, limit int) []api.HistoryEntry {
	ordered := chronological(treinos)
	out := make([]api.HistoryEntry, 0, limit)
	for i := len(ordered) - 1; i >= 0 && len(out) < limit; i-- {
		t := ordered[i]
		entry := api.HistoryEntry{
			ID:         t.ID,
			Nome:       t.NomeTreino,
			Data:       t.CreatedAt.Format(api.DateLayout),
			Categoria:  dominantCategory(t),
			Exercicios: len(t.Itens),
			Ativo:      t.Ativo,
			Detalhes:   []api.HistoryDetail{},
		}
		for j := range t.Itens {
			if j == 5 {
				break
			}
			it := &t.Itens[j]
			carga := 0
			if it.CargaKg != nil {
				carga = *it.CargaKg
			}
			entry.Detalhes = append(entry.Detalhes, api.HistoryDetail{
				Exercicio: it.Exercicio.Nome,
				Series:    it.Series,
				Reps:      it.Repeticoes,
				Carga:     carga,
			})
		}
		out = append(out, entry)
	}
	return out
}

func dominantCategory(t *models.Treino) string {
	counts := make(map[string]*tally)
	for i := range t.Itens {
		e := &t.Itens[i].Exercicio
		if e.Category == nil || *e.Category == "" {
			continue
		}
		c, ok := counts[*e.Category]
		if !ok {
			c = &tally{key: *e.Category}
			counts[*e.Category] = c
		}
		c.count++
	}
	if ranked := rank(counts, 1); len(ranked) == 1 {
		return ranked[0].key
	}
	return categoriaGeral
}

// retentionRate is the share of students holding at least one active
// workout.
func retentionRate(alunos []*models.Aluno, treinos []*models.Treino) float64 {
	if len(alunos) == 0 {
		return 0
	}
	active := make(map[uint]bool)
	for _, t := range treinos {
		if t.Ativo {
			active[t.AlunoID] = true
		}
	}
	n := 0
	for _, a := range alunos {
		if active[a.UserID] {
			n++
		}
	}
	return pct(float64(n), float64(len(alunos)))
}

// leadingInt reads the number a repetition string starts with, so "10-12"
// counts as 10.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, _ := strconv.Atoi(s[:end])
	return n
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
