package forcesModel

type TypeElement string
type MediaType string

const (
	TypeForce          TypeElement = "force"
	TypeFaiblesse      TypeElement = "faiblesse"
	TypeEnvironnement  TypeElement = "environnement"
	TypeRenforcement   TypeElement = "renforcement"
	TypeDeconstruction TypeElement = "deconstruction"
	TypeReponse        TypeElement = "reponse"
	TypeAutre          TypeElement = "autre"

	MediaTexte MediaType = "texte"
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
	MediaAutre MediaType = "autre"
)

var TypeElements = []TypeElement{
	TypeForce, TypeFaiblesse, TypeEnvironnement, TypeRenforcement, TypeDeconstruction, TypeReponse, TypeAutre,
}

var mediaTypes = []MediaType{MediaTexte, MediaImage, MediaVideo, MediaAudio, MediaAutre}

// ParseTypeElement maps unknown values to TypeAutre.
func ParseTypeElement(raw string) TypeElement {
	for _, t := range TypeElements {
		if string(t) == raw {
			return t
		}
	}
	return TypeAutre
}

// ParseMediaType maps unknown values to MediaAutre.
func ParseMediaType(raw string) MediaType {
	for _, m := range mediaTypes {
		if string(m) == raw {
			return m
		}
	}
	return MediaAutre
}

type PoliticalParty struct {
	Id          string  `json:"id"`
	Nom         string  `json:"nom"`
	Description string  `json:"description"`
	LogoURL     *string `json:"logo_url"`
}

type MediaFile struct {
	Id         string    `json:"id"`
	ElementId  string    `json:"element_id"`
	FilePath   string    `json:"file_path"`
	MediaType  MediaType `json:"media_type"`
	Importance int       `json:"importance"`
}

// StrengthWeakness is one forces/faiblesses assessment attached to a party.
// Date is a calendar date, YYYY-MM-DD.
type StrengthWeakness struct {
	Id         string      `json:"id"`
	PartyId    string      `json:"party_id"`
	Type       TypeElement `json:"type"`
	Categorie  *string     `json:"categorie"`
	Contenu    string      `json:"contenu"`
	Resume     *string     `json:"resume"`
	Date       string      `json:"date"`
	Source     *string     `json:"source"`
	Auteur     *string     `json:"auteur"`
	MediaFiles []MediaFile `json:"media_files"`
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
