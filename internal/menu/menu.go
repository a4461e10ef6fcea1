// Package menu implements the interactive console for managing the rule base
// and running a consultation.
package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/majorwise/majorwise/internal/advisor"
	"github.com/majorwise/majorwise/internal/knowledge"
	"github.com/majorwise/majorwise/internal/recommend"
	"github.com/majorwise/majorwise/pkg/facts"
)

var gradeLabels = map[string]string{
	facts.Math:      "Nilai Matematika",
	facts.Physics:   "Nilai Fisika",
	facts.Biology:   "Nilai Biologi",
	facts.Chemistry: "Nilai Kimia",
	facts.Language:  "Nilai Bahasa",
}

// Advisor is the subset of the advisor the menu drives.
type Advisor interface {
	Recommend(ctx context.Context, f facts.Facts, topN int, source string) (advisor.Run, error)
	Rules() []advisor.RuleInfo
	Rule(name string) (advisor.RuleInfo, bool)
	AddRule(nd knowledge.NamedDescriptor) error
	UpdateRule(name string, u knowledge.Update) (bool, error)
	DeleteRule(name string) bool
}

type Menu struct {
	advisor Advisor
	in      *bufio.Scanner
	out     io.Writer
}

func New(a Advisor, in io.Reader, out io.Writer) *Menu {
	return &Menu{advisor: a, in: bufio.NewScanner(in), out: out}
}

// Run loops until the user exits or input is exhausted.
func (m *Menu) Run(ctx context.Context) error {
	for {
		m.println("\n====== SISTEM PAKAR PENENTUAN JURUSAN ======")
		m.println("1. Tambah Rule")
		m.println("2. Lihat Basis Knowledge")
		m.println("3. Update Rule")
		m.println("4. Hapus Rule")
		m.println("5. Jalankan Forward Chaining")
		m.println("6. Keluar")
		choice, err := m.ask("Pilih menu: ")
		if err != nil {
			return eof(err)
		}

		switch choice {
		case "1":
			err = m.addRule()
		case "2":
			m.listRules()
		case "3":
			err = m.updateRule()
		case "4":
			err = m.deleteRule()
		case "5":
			err = m.consult(ctx)
		case "6":
			m.println("Terima kasih telah menggunakan sistem pakar.")
			return nil
		default:
			m.println("Pilihan tidak dikenal, silakan coba lagi.")
		}
		if err != nil {
			return eof(err)
		}
	}
}

func (m *Menu) consult(ctx context.Context) error {
	m.println("=== Jalankan Forward Chaining ===")
	interests, err := m.askInterests()
	if err != nil {
		return err
	}
	grades := make(map[string]float64, len(facts.Subjects))
	for _, subject := range facts.Subjects {
		v, err := m.askGrade(gradeLabels[subject])
		if err != nil {
			return err
		}
		grades[subject] = v
	}
	style, err := m.askOption("Gaya belajar (visual/auditori/kinestetik)", facts.LearningStyles)
	if err != nil {
		return err
	}
	env, err := m.askOption("Preferensi lingkungan (riset/industri/kreatif)", facts.Environments)
	if err != nil {
		return err
	}
	goal, err := m.ask("Tujuan karier (contoh: dokter, developer, analis data): ")
	if err != nil {
		return err
	}

	f := facts.Facts{
		Interests:     interests,
		Grades:        grades,
		LearningStyle: style,
		Environment:   env,
		CareerGoal:    goal,
	}
	f.Normalize()

	run, err := m.advisor.Recommend(ctx, f, 0, "menu")
	if err != nil {
		m.printf("Gagal menjalankan inferensi: %v\n", err)
		return nil
	}
	PrintRecommendations(m.out, run.Recommendations)
	return nil
}

// PrintRecommendations writes ranked results with the reasons behind each.
func PrintRecommendations(w io.Writer, recs []recommend.Recommendation) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "Maaf, belum ada rekomendasi berdasarkan data yang diberikan.")
		return
	}

	fmt.Fprintln(w, "\nRekomendasi teratas:")
	for i, rec := range recs {
		fmt.Fprintf(w, "%d. %s (skor: %s)\n", i+1, rec.Major, formatNumber(rec.Score))
		fmt.Fprintln(w, "   Alasan:")
		for _, ev := range rec.Evidence {
			fmt.Fprintf(w, "   - Rule %s (CF %s): %s\n", ev.RuleName, formatNumber(ev.RuleWeight), ev.Explanation)
		}
		fmt.Fprintln(w)
	}
}

// PrintRules writes the rule base as a numbered list.
func PrintRules(w io.Writer, rules []advisor.RuleInfo) {
	if len(rules) == 0 {
		fmt.Fprintln(w, "Belum ada rule yang tersimpan.")
		return
	}
	for i, info := range rules {
		fmt.Fprintf(w, "%d. %s | Jurusan: %s | Bobot: %s\n", i+1, info.Rule.Name, info.Rule.Major, formatNumber(info.Rule.Weight))
	}
}

func (m *Menu) addRule() error {
	m.println("=== Tambah Rule ===")
	name, err := m.ask("Nama rule: ")
	if err != nil {
		return err
	}
	if name == "" {
		m.println("Nama rule tidak boleh kosong.")
		return nil
	}
	major, err := m.ask("Jurusan yang didukung: ")
	if err != nil {
		return err
	}
	if major == "" {
		m.println("Jurusan tidak boleh kosong.")
		return nil
	}
	weight, err := m.askWeight()
	if err != nil {
		return err
	}
	d, err := m.askDescriptor("Minat utama yang harus dimiliki")
	if err != nil {
		return err
	}
	d.Major = major
	d.Weight = &weight

	if err := m.advisor.AddRule(knowledge.NamedDescriptor{Name: name, Descriptor: d}); err != nil {
		m.printf("Gagal menambahkan rule: %v\n", err)
		return nil
	}
	m.printf("Rule '%s' berhasil ditambahkan.\n", name)
	return nil
}

func (m *Menu) listRules() {
	m.println("=== Basis Knowledge ===")
	PrintRules(m.out, m.advisor.Rules())
}

func (m *Menu) updateRule() error {
	m.println("=== Update Rule ===")
	name, err := m.ask("Masukkan nama rule yang ingin diupdate: ")
	if err != nil {
		return err
	}
	info, ok := m.advisor.Rule(name)
	if !ok {
		m.println("Rule tidak ditemukan.")
		return nil
	}

	var u knowledge.Update
	if u.Major, err = m.ask("Jurusan baru (kosongkan jika tidak berubah): "); err != nil {
		return err
	}
	raw, err := m.ask("Bobot baru 0-1 (kosongkan jika tidak berubah): ")
	if err != nil {
		return err
	}
	if raw != "" {
		w, perr := strconv.ParseFloat(raw, 64)
		if perr != nil {
			m.println("Bobot harus berupa angka desimal.")
			return nil
		}
		u.Weight = &w
	}

	if info.Descriptor != nil {
		m.println("Rule ini dibuat melalui menu, Anda dapat memperbarui komponennya.")
		d, err := m.askDescriptor("Minat utama")
		if err != nil {
			return err
		}
		d.Major = u.Major
		if d.Major == "" {
			d.Major = info.Descriptor.Major
		}
		d.Weight = u.Weight
		if d.Weight == nil {
			d.Weight = info.Descriptor.Weight
		}
		u.Descriptor = &d
	}

	updated, err := m.advisor.UpdateRule(name, u)
	switch {
	case err != nil:
		m.printf("Gagal memperbarui rule: %v\n", err)
	case updated:
		m.println("Rule berhasil diperbarui.")
	default:
		m.println("Gagal memperbarui rule.")
	}
	return nil
}

func (m *Menu) deleteRule() error {
	m.println("=== Hapus Rule ===")
	name, err := m.ask("Masukkan nama rule yang ingin dihapus: ")
	if err != nil {
		return err
	}
	if m.advisor.DeleteRule(name) {
		m.printf("Rule '%s' berhasil dihapus.\n", name)
	} else {
		m.println("Rule tidak ditemukan.")
	}
	return nil
}

// askDescriptor prompts for the interest, subject, threshold and explanation
// of a declarative rule.
func (m *Menu) askDescriptor(interestPrompt string) (knowledge.Descriptor, error) {
	lowered := make([]string, 0, len(facts.AllInterests))
	for _, i := range facts.AllInterests {
		lowered = append(lowered, strings.ToLower(string(i)))
	}
	interest, err := m.askOption(interestPrompt+" (Realistic/Investigative/Artistic/Social/Enterprising/Conventional)", lowered)
	if err != nil {
		return knowledge.Descriptor{}, err
	}
	subject, err := m.askOption("Nilai mata pelajaran yang dicek (math/physics/biology/chemistry/language)", facts.Subjects)
	if err != nil {
		return knowledge.Descriptor{}, err
	}
	threshold, err := m.askGrade(fmt.Sprintf("Minimal %s untuk rule ini", gradeLabels[subject]))
	if err != nil {
		return knowledge.Descriptor{}, err
	}
	explanation, err := m.ask("Penjelasan rule: ")
	if err != nil {
		return knowledge.Descriptor{}, err
	}
	if explanation == "" {
		explanation = knowledge.DefaultExplanation
	}
	return knowledge.Descriptor{
		Interest:    facts.Capitalize(interest),
		Subject:     subject,
		Threshold:   threshold,
		Explanation: explanation,
	}, nil
}

func (m *Menu) askInterests() (facts.InterestSet, error) {
	for {
		raw, err := m.ask("Minat RIASEC (pisahkan dengan koma, contoh: Investigative,Realistic): ")
		if err != nil {
			return nil, err
		}
		set, perr := facts.ParseInterests(raw)
		if perr == nil {
			return set, nil
		}
		names := make([]string, 0, len(facts.AllInterests))
		for _, i := range facts.AllInterests {
			names = append(names, string(i))
		}
		sort.Strings(names)
		m.printf("Input tidak valid. Pilihan: %s.\n", strings.Join(names, ", "))
	}
}

func (m *Menu) askGrade(prompt string) (float64, error) {
	for {
		raw, err := m.ask(prompt + " (0-100): ")
		if err != nil {
			return 0, err
		}
		if v, perr := strconv.ParseFloat(raw, 64); perr == nil && v >= 0 && v <= 100 {
			return v, nil
		}
		m.println("Nilai harus berupa angka 0-100.")
	}
}

func (m *Menu) askWeight() (float64, error) {
	for {
		raw, err := m.ask("Bobot rule (0-1): ")
		if err != nil {
			return 0, err
		}
		v, perr := strconv.ParseFloat(raw, 64)
		if perr != nil {
			m.println("Bobot harus berupa angka desimal.")
			continue
		}
		if knowledge.ValidateWeight(v) == nil {
			return v, nil
		}
		m.println("Bobot harus di antara 0 dan 1.")
	}
}

func (m *Menu) askOption(prompt string, options []string) (string, error) {
	sorted := append([]string(nil), options...)
	sort.Strings(sorted)
	for {
		raw, err := m.ask(prompt + ": ")
		if err != nil {
			return "", err
		}
		value := strings.ToLower(raw)
		for _, opt := range options {
			if opt == value {
				return value, nil
			}
		}
		m.printf("Pilihan tidak valid. Gunakan salah satu: %s.\n", strings.Join(sorted, ", "))
	}
}

func (m *Menu) ask(prompt string) (string, error) {
	m.printf("%s", prompt)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(m.in.Text()), nil
}

func (m *Menu) println(s string) {
	fmt.Fprintln(m.out, s)
}

func (m *Menu) printf(format string, args ...interface{}) {
	fmt.Fprintf(m.out, format, args...)
}

// eof treats exhausted input as a normal exit.
func eof(err error) error {
	if err == io.EOF {
		return nil
	}
	return err
}

// formatNumber prints whole numbers with one decimal place, e.g. 1.0, and
// other values in their shortest form.
func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
