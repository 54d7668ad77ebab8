package models

// CrateSource is a closed sum of the ways a crate can be located. It is
// modeled as a tagged struct rather than an interface: the set of variants
// is small, exhaustively switched on by the Loader and the façade's
// discovery logic, and the discovery rules differ materially per variant.
type SourceKind int

const (
	// SourceDirectory is a local folder containing ro-crate-metadata.json.
	SourceDirectory SourceKind = iota
	// SourceZipFile is a local zip archive whose root holds a metadata file.
	SourceZipFile
	// SourceURL is a remote location, either the metadata JSON directly or a
	// directory URL under which /ro-crate-metadata.json resolves.
	SourceURL
	// SourceZipSubcrate is a nested metadata entry within an already-located zip.
	SourceZipSubcrate
	// SourceURLSubcrate is the already-resolved metadata URL of a nested crate.
	SourceURLSubcrate
	// SourceDirectorySubcrate is a nested directory crate reached from an
	// already-catalogued directory parent. Unlike SourceDirectory, its id is
	// derived hierarchically from the parent's assigned id rather than
	// minted fresh, since it carries ParentID for exactly that purpose.
	SourceDirectorySubcrate
)

func (k SourceKind) String() string {
	switch k {
	case SourceDirectory:
		return "directory"
	case SourceZipFile:
		return "zip_file"
	case SourceURL:
		return "url"
	case SourceZipSubcrate:
		return "zip_subcrate"
	case SourceURLSubcrate:
		return "url_subcrate"
	case SourceDirectorySubcrate:
		return "directory_subcrate"
	default:
		return "unknown"
	}
}

// CrateSource identifies one crate location. Exactly the fields relevant to
// Kind are populated; callers construct it with the NewXxxSource helpers
// below rather than poking at fields directly.
type CrateSource struct {
	Kind SourceKind

	// Directory / ZipFile / URL
	Path string // local path (Directory, ZipFile) or URL string (URL)

	// ZipSubcrate / UrlSubcrate / DirectorySubcrate
	ParentID string

	// ZipSubcrate
	ZipPath string
	Subpath string

	// UrlSubcrate
	MetadataURL string

	// DirectorySubcrate: Path is the real filesystem directory to load from;
	// NormalizedID is the id suffix appended to ParentID.
	NormalizedID string
}

func NewDirectorySource(path string) CrateSource {
	return CrateSource{Kind: SourceDirectory, Path: path}
}

func NewZipFileSource(path string) CrateSource {
	return CrateSource{Kind: SourceZipFile, Path: path}
}

func NewURLSource(url string) CrateSource {
	return CrateSource{Kind: SourceURL, Path: url}
}

func NewZipSubcrateSource(parentID, zipPath, subpath string) CrateSource {
	return CrateSource{Kind: SourceZipSubcrate, ParentID: parentID, ZipPath: zipPath, Subpath: subpath}
}

func NewURLSubcrateSource(parentID, metadataURL string) CrateSource {
	return CrateSource{Kind: SourceURLSubcrate, ParentID: parentID, MetadataURL: metadataURL}
}

func NewDirectorySubcrateSource(parentID, path, normalizedID string) CrateSource {
	return CrateSource{Kind: SourceDirectorySubcrate, ParentID: parentID, Path: path, NormalizedID: normalizedID}
}
