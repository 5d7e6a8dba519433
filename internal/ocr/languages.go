package ocr

// tesseractCodes maps EasyOCR language codes to tesseract traineddata names.
var tesseractCodes = map[string]string{
	"ja":     "jpn",
	"en":     "eng",
	"fr":     "fra",
	"de":     "deu",
	"es":     "spa",
	"it":     "ita",
	"pt":     "por",
	"nl":     "nld",
	"ru":     "rus",
	"uk":     "ukr",
	"pl":     "pol",
	"ko":     "kor",
	"ch_sim": "chi_sim",
	"ch_tra": "chi_tra",
	"ar":     "ara",
	"hi":     "hin",
	"th":     "tha",
	"vi":     "vie",
	"tr":     "tur",
}

// TesseractLanguages translates codes for tesseract. Unknown codes are passed
// through unchanged so tesseract itself reports them.
func TesseractLanguages(langs []string) []string {
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		if code, ok := tesseractCodes[l]; ok {
			out = append(out, code)
			continue
		}
		out = append(out, l)
	}
	return out
}
