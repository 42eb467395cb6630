package valueobject

import (
	"strings"

	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
)

type Specialty string

const (
	SpecialtyAudioEngineer      Specialty = "audio_engineer"
	SpecialtyCameraOperator     Specialty = "camera_operator"
	SpecialtyVideoEditor        Specialty = "video_editor"
	SpecialtyPhotographer       Specialty = "photographer"
	SpecialtyDronePilot         Specialty = "drone_pilot"
	SpecialtyLightingTechnician Specialty = "lighting_technician"
	SpecialtyDirector           Specialty = "director"
	SpecialtyProducer           Specialty = "producer"
	SpecialtyColorist           Specialty = "colorist"
	SpecialtyMotionDesigner     Specialty = "motion_designer"
	SpecialtySoundDesigner      Specialty = "sound_designer"
	SpecialtyLiveStreaming      Specialty = "live_streaming"
	SpecialtyDJ                 Specialty = "dj"
	SpecialtyVJ                 Specialty = "vj"
	SpecialtyScreenwriter       Specialty = "screenwriter"
	SpecialtyMakeupArtist       Specialty = "makeup_artist"
)

// SpecialtyInfo: элемент каталога для отдачи клиенту.
type SpecialtyInfo struct {
	Code  Specialty `json:"code"`
	Label string    `json:"label"`
}

// Порядок каталога фиксирован, метки на португальском: они показываются пользователям как есть.
var specialtyCatalog = []SpecialtyInfo{
	{SpecialtyAudioEngineer, "Técnico de Áudio"},
	{SpecialtyCameraOperator, "Operador de Câmera"},
	{SpecialtyVideoEditor, "Editor de Vídeo"},
	{SpecialtyPhotographer, "Fotógrafo"},
	{SpecialtyDronePilot, "Piloto de Drone"},
	{SpecialtyLightingTechnician, "Iluminador"},
	{SpecialtyDirector, "Diretor"},
	{SpecialtyProducer, "Produtor"},
	{SpecialtyColorist, "Colorista"},
	{SpecialtyMotionDesigner, "Motion Designer"},
	{SpecialtySoundDesigner, "Sound Designer"},
	{SpecialtyLiveStreaming, "Transmissão ao Vivo"},
	{SpecialtyDJ, "DJ"},
	{SpecialtyVJ, "VJ"},
	{SpecialtyScreenwriter, "Roteirista"},
	{SpecialtyMakeupArtist, "Maquiador"},
}

var specialtyLabels = func() map[Specialty]string {
	m := make(map[Specialty]string, len(specialtyCatalog))
	for _, info := range specialtyCatalog {
		m[info.Code] = info.Label
	}
	return m
}()

// All возвращает копию каталога в порядке отображения.
func All() []SpecialtyInfo {
	out := make([]SpecialtyInfo, len(specialtyCatalog))
	copy(out, specialtyCatalog)
	return out
}

func Label(code Specialty) (string, bool) {
	label, ok := specialtyLabels[code]
	return label, ok
}

func (s Specialty) IsValid() bool {
	_, ok := specialtyLabels[s]
	return ok
}

// Label возвращает метку или сам код, если он не из каталога.
func (s Specialty) Label() string {
	if label, ok := specialtyLabels[s]; ok {
		return label
	}
	return string(s)
}

func ParseSpecialty(code string) (Specialty, error) {
	s := Specialty(strings.TrimSpace(code))
	if !s.IsValid() {
		return "", apperror.Validation("неизвестная специализация: " + code)
	}
	return s, nil
}

// ParseSpecialties валидирует набор кодов и убирает дубликаты, сохраняя порядок.
func ParseSpecialties(codes []string) ([]Specialty, error) {
	seen := make(map[Specialty]struct{}, len(codes))
	out := make([]Specialty, 0, len(codes))
	for _, code := range codes {
		s, err := ParseSpecialty(code)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}

// MatchLabel сообщает, содержит ли код или метка специализации подстроку term без учёта регистра.
func MatchLabel(code Specialty, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(code.Label()), term) ||
		strings.Contains(strings.ToLower(string(code)), term)
}
