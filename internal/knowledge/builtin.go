package knowledge

import "github.com/majorwise/majorwise/pkg/facts"

// Logic identifies one fixed built-in condition.
type Logic string

const (
	logicTIInvestigative     Logic = "TI-Interes-Investigative"
	logicTIEnvironment       Logic = "TI-Environment-Industry"
	logicTICareer            Logic = "TI-Career-Tech"
	logicTICreative          Logic = "TI-Creative-Blend"
	logicSIStructured        Logic = "SI-Structured"
	logicSIIndustry          Logic = "SI-Industry"
	logicSICareer            Logic = "SI-Career-BusinessIT"
	logicElektroSTEM         Logic = "Elektro-STEM"
	logicElektroRiset        Logic = "Elektro-Riset"
	logicMesinSTEM           Logic = "Mesin-STEM"
	logicMesinIndustry       Logic = "Mesin-Industry"
	logicKedokteranBio       Logic = "Kedokteran-Bio"
	logicKedokteranCareer    Logic = "Kedokteran-Career"
	logicFarmasiScience      Logic = "Farmasi-Science"
	logicFarmasiBio          Logic = "Farmasi-Bio"
	logicFarmasiCareer       Logic = "Farmasi-Career"
	logicKeperawatanSocial   Logic = "Keperawatan-Social"
	logicKeperawatanCareer   Logic = "Keperawatan-Career"
	logicBiologiRiset        Logic = "Biologi-Riset"
	logicBiologiEnvironment  Logic = "Biologi-Environment"
	logicKimiaRiset          Logic = "Kimia-Riset"
	logicKimiaEnvironment    Logic = "Kimia-Environment"
	logicKimiaCareer         Logic = "Kimia-Career"
	logicHukumSocial         Logic = "Hukum-Social"
	logicHukumCareer         Logic = "Hukum-Career"
	logicPsikologiSocial     Logic = "Psikologi-Social"
	logicPsikologiCareer     Logic = "Psikologi-Career"
	logicAkuntansiConvention Logic = "Akuntansi-Conventional"
	logicAkuntansiCareer     Logic = "Akuntansi-Career"
	logicManajemenEnterprise Logic = "Manajemen-Enterprising"
	logicManajemenIndustry   Logic = "Manajemen-Industry"
	logicManajemenCareer     Logic = "Manajemen-Career"
	logicEkonomiAnalyst      Logic = "Ekonomi-Analyst"
	logicEkonomiCareer       Logic = "Ekonomi-Career"
	logicStatistikaMath      Logic = "Statistika-StrongMath"
	logicStatistikaRiset     Logic = "Statistika-Riset"
	logicStatistikaCareer    Logic = "Statistika-Career"
	logicDKVArt              Logic = "DKV-Art"
	logicDKVCareer           Logic = "DKV-Career"
)

type builtin struct {
	logic       Logic
	major       string
	weight      float64
	explanation string
}

var builtinRules = []builtin{
	{logicTIInvestigative, "Teknik Informatika", 0.25, "Minat Investigative dan nilai Matematika tinggi mendukung logika pemrograman."},
	{logicTIEnvironment, "Teknik Informatika", 0.2, "Preferensi lingkungan industri/riset cocok dengan proyek pengembangan perangkat lunak."},
	{logicTICareer, "Teknik Informatika", 0.15, "Tujuan karier di bidang teknologi sesuai dengan proyeksi TI."},
	{logicTICreative, "Teknik Informatika", 0.15, "Kombinasi lingkungan kreatif dan minat Artistic membuka jalur UI/UX dan front-end."},
	{logicSIStructured, "Sistem Informasi", 0.25, "Minat Conventional dan dasar Matematika memadai untuk analisis sistem."},
	{logicSIIndustry, "Sistem Informasi", 0.2, "Preferensi industri cocok dengan penerapan SI di organisasi."},
	{logicSICareer, "Sistem Informasi", 0.15, "Tujuan karier analisis sistem/teknologi bisnis mendukung SI."},
	{logicElektroSTEM, "Teknik Elektro", 0.3, "Minat Realistic dan nilai Matematika/Fisika tinggi penting untuk rekayasa listrik."},
	{logicElektroRiset, "Teknik Elektro", 0.2, "Preferensi riset/industri sejalan dengan eksperimen elektronika."},
	{logicMesinSTEM, "Teknik Mesin", 0.3, "Minat Realistic dan dasar Matematika/Fisika baik untuk mekanika."},
	{logicMesinIndustry, "Teknik Mesin", 0.2, "Preferensi industri cocok dengan manufaktur dan produksi."},
	{logicKedokteranBio, "Kedokteran", 0.35, "Minat Social serta nilai Biologi/Kimia tinggi diperlukan untuk profesi dokter."},
	{logicKedokteranCareer, "Kedokteran", 0.2, "Tujuan karier medis menguatkan pilihan Kedokteran."},
	{logicFarmasiScience, "Farmasi", 0.3, "Minat Investigative dan nilai Kimia tinggi sesuai eksperimen obat."},
	{logicFarmasiBio, "Farmasi", 0.2, "Penguasaan Biologi mendukung pemahaman farmakologi."},
	{logicFarmasiCareer, "Farmasi", 0.15, "Tujuan karier di bidang farmasi memperkuat kecocokan."},
	{logicKeperawatanSocial, "Keperawatan", 0.3, "Minat Social dan Biologi tinggi mendukung perawatan pasien."},
	{logicKeperawatanCareer, "Keperawatan", 0.2, "Tujuan karier keperawatan memperkuat pilihan."},
	{logicBiologiRiset, "Biologi", 0.3, "Minat Investigative dan nilai Biologi tinggi cocok untuk riset hayati."},
	{logicBiologiEnvironment, "Biologi", 0.2, "Preferensi riset mendukung kegiatan laboratorium Biologi."},
	{logicKimiaRiset, "Kimia", 0.3, "Minat Investigative dan Kimia tinggi diperlukan untuk riset kimia."},
	{logicKimiaEnvironment, "Kimia", 0.2, "Preferensi riset sesuai eksperimen laboratorium Kimia."},
	{logicKimiaCareer, "Kimia", 0.15, "Tujuan karier kimia memperkuat fokus eksperimen dan sintesis."},
	{logicHukumSocial, "Hukum", 0.3, "Minat Enterprising/Social serta Bahasa tinggi penting untuk advokasi hukum."},
	{logicHukumCareer, "Hukum", 0.2, "Tujuan karier hukum memperkuat pilihan."},
	{logicPsikologiSocial, "Psikologi", 0.3, "Minat Social/Artistic dan Bahasa memadai untuk komunikasi psikologi."},
	{logicPsikologiCareer, "Psikologi", 0.2, "Tujuan karier konseling/terapi sesuai Psikologi."},
	{logicAkuntansiConvention, "Akuntansi", 0.3, "Minat Conventional dan Matematika tinggi mendukung pencatatan keuangan."},
	{logicAkuntansiCareer, "Akuntansi", 0.2, "Tujuan karier akuntan memperkuat jurusan."},
	{logicManajemenEnterprise, "Manajemen", 0.25, "Minat Enterprising dan dasar numerik baik untuk pengambilan keputusan bisnis."},
	{logicManajemenIndustry, "Manajemen", 0.15, "Preferensi industri sesuai praktik manajerial perusahaan."},
	{logicManajemenCareer, "Manajemen", 0.15, "Tujuan karier manajerial/bisnis mendukung jurusan."},
	{logicEkonomiAnalyst, "Ekonomi", 0.25, "Minat Investigative/Enterprising serta Matematika cukup untuk analisis ekonomi."},
	{logicEkonomiCareer, "Ekonomi", 0.15, "Tujuan karier analis ekonomi memperkuat jurusan."},
	{logicStatistikaMath, "Statistika", 0.35, "Minat Investigative dan Matematika sangat tinggi kunci Statistika."},
	{logicStatistikaRiset, "Statistika", 0.2, "Preferensi riset sesuai pengembangan model statistik."},
	{logicStatistikaCareer, "Statistika", 0.15, "Tujuan karier analitik/data science mendukung Statistika."},
	{logicDKVArt, "Desain Komunikasi Visual", 0.35, "Minat Artistic dan lingkungan kreatif identik dengan DKV."},
	{logicDKVCareer, "Desain Komunikasi Visual", 0.2, "Tujuan karier desain memperkuat jurusan DKV."},
}

// BuiltinRules returns a fresh copy of the built-in rule set in its fixed order.
func BuiltinRules() []Rule {
	out := make([]Rule, 0, len(builtinRules))
	for _, b := range builtinRules {
		out = append(out, Rule{
			Name:      string(b.logic),
			Major:     b.major,
			Weight:    b.weight,
			Condition: Custom(b.logic, b.explanation),
		})
	}
	return out
}

// evalLogic runs the built-in predicate. The second result is false when the
// id is not a built-in.
func evalLogic(id Logic, r *factReader) (bool, bool) {
	switch id {
	case logicTIInvestigative:
		return r.interest(facts.Investigative) && r.grade(facts.Math) >= 85, true
	case logicTIEnvironment:
		return r.environmentIn("industri", "riset"), true
	case logicTICareer:
		// "AI" stays upper case and so never matches a lowercased goal.
		return r.goalHas("developer", "software", "data", "AI", "robot"), true
	case logicTICreative:
		return r.environment() == "kreatif" && r.interest(facts.Artistic), true
	case logicSIStructured:
		return r.interest(facts.Conventional) && r.grade(facts.Math) >= 75, true
	case logicSIIndustry:
		return r.environment() == "industri", true
	case logicSICareer:
		return r.goalHas("analyst", "bisnis", "system"), true
	case logicElektroSTEM:
		return r.interest(facts.Realistic) && r.grade(facts.Math) >= 80 && r.grade(facts.Physics) >= 80, true
	case logicElektroRiset:
		return r.environmentIn("industri", "riset"), true
	case logicMesinSTEM:
		return r.interest(facts.Realistic) && r.grade(facts.Math) >= 75 && r.grade(facts.Physics) >= 75, true
	case logicMesinIndustry:
		return r.environment() == "industri", true
	case logicKedokteranBio:
		return r.interest(facts.Social) && r.grade(facts.Biology) >= 85 && r.grade(facts.Chemistry) >= 80, true
	case logicKedokteranCareer:
		return r.goalHas("dokter", "medis", "kesehatan"), true
	case logicFarmasiScience:
		return r.interest(facts.Investigative) && r.grade(facts.Chemistry) >= 85, true
	case logicFarmasiBio:
		return r.grade(facts.Biology) >= 80, true
	case logicFarmasiCareer:
		return r.goalHas("farmasi", "apotek", "apoteker", "obat"), true
	case logicKeperawatanSocial:
		return r.interest(facts.Social) && r.grade(facts.Biology) >= 80, true
	case logicKeperawatanCareer:
		return r.goalHas("perawat", "care", "nurse"), true
	case logicBiologiRiset:
		return r.interest(facts.Investigative) && r.grade(facts.Biology) >= 85, true
	case logicBiologiEnvironment:
		return r.environment() == "riset", true
	case logicKimiaRiset:
		return r.interest(facts.Investigative) && r.grade(facts.Chemistry) >= 85, true
	case logicKimiaEnvironment:
		return r.environment() == "riset", true
	case logicKimiaCareer:
		return r.goalHas("kimia", "chemist", "laboratorium"), true
	case logicHukumSocial:
		return (r.interest(facts.Enterprising) || r.interest(facts.Social)) && r.grade(facts.Language) >= 80, true
	case logicHukumCareer:
		return r.goalHas("hukum", "law", "advokat", "jaksa"), true
	case logicPsikologiSocial:
		return (r.interest(facts.Social) || r.interest(facts.Artistic)) && r.grade(facts.Language) >= 78, true
	case logicPsikologiCareer:
		return r.goalHas("psiko", "konselor", "terapis"), true
	case logicAkuntansiConvention:
		return r.interest(facts.Conventional) && r.grade(facts.Math) >= 78, true
	case logicAkuntansiCareer:
		return r.goalHas("akuntan"), true
	case logicManajemenEnterprise:
		return r.interest(facts.Enterprising) && r.grade(facts.Math) >= 75, true
	case logicManajemenIndustry:
		return r.environment() == "industri", true
	case logicManajemenCareer:
		return r.goalHas("manager", "bisnis", "entrepreneur"), true
	case logicEkonomiAnalyst:
		return (r.interest(facts.Investigative) || r.interest(facts.Enterprising)) && r.grade(facts.Math) >= 75, true
	case logicEkonomiCareer:
		return r.goalHas("ekonomi", "analis", "riset pasar"), true
	case logicStatistikaMath:
		return r.interest(facts.Investigative) && r.grade(facts.Math) >= 88, true
	case logicStatistikaRiset:
		return r.environment() == "riset", true
	case logicStatistikaCareer:
		return r.goalHas("statistik", "data", "analitik"), true
	case logicDKVArt:
		return r.interest(facts.Artistic) && r.environment() == "kreatif", true
	case logicDKVCareer:
		return r.goalHas("desain", "designer", "grafis"), true
	default:
		return false, false
	}
}
