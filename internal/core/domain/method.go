package domain

// Method is one of the supported verification methods
type Method string

// Supported verification methods
const (
	MethodBankID         Method = "bankid"
	MethodMojeID         Method = "mojeid"
	MethodOCR            Method = "ocr"
	MethodFaceScan       Method = "facescan"
	MethodReverification Method = "reverification"
	MethodQRCode         Method = "qrcode"
)

// Methods returns all supported verification methods
func Methods() []Method {
	return []Method{MethodBankID, MethodMojeID, MethodOCR, MethodFaceScan, MethodReverification, MethodQRCode}
}

// ParseMethod converts s into a Method. The second return value tells whether
// s names a supported method.
func ParseMethod(s string) (Method, bool) {
	m := Method(s)
	for _, known := range Methods() {
		if m == known {
			return m, true
		}
	}
	return "", false
}

// SaveMethod is the channel a successful verification was saved under
type SaveMethod string

// Supported save methods
const (
	SaveMethodCookie SaveMethod = "cookie"
	SaveMethodPhone  SaveMethod = "phone"
	SaveMethodEmail  SaveMethod = "email"
	SaveMethodApple  SaveMethod = "apple"
	SaveMethodGoogle SaveMethod = "google"
)

// ParseSaveMethod converts s into a SaveMethod. The second return value tells
// whether s names a supported save channel.
func ParseSaveMethod(s string) (SaveMethod, bool) {
	m := SaveMethod(s)
	switch m {
	case SaveMethodCookie, SaveMethodPhone, SaveMethodEmail, SaveMethodApple, SaveMethodGoogle:
		return m, true
	}
	return "", false
}
