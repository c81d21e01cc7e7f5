package resolver

type alias struct {
	fragment string
	slug     string
}

// aliases is ordered: longer, more specific fragments come before the ones
// they contain.
var aliases = []alias{
	{"rtl nederland", "rtl-nederland"},
	{"rtl belgium", "rtl-belgium"},
	{"bnp paribas fortis", "bnp-paribas-fortis"},
	{"bnp paribas", "bnp-paribas"},
	{"ahold delhaize", "ahold-delhaize"},
	{"abn amro", "abn-amro-bank"},
	{"ab inbev", "ab-inbev"},
	{"anheuser-busch", "ab-inbev"},
	{"dpg media", "dpg-media"},
	{"kbc", "kbc-group"},
	{"belfius", "belfius"},
	{"proximus", "proximus"},
	{"telenet", "telenet"},
	{"colruyt", "colruyt-group"},
	{"solvay", "solvay"},
	{"umicore", "umicore"},
	{"euroclear", "euroclear"},
	{"argenx", "argenx"},
	{"philips", "philips"},
	{"asml", "asml"},
	{"rabobank", "rabobank"},
	{"heineken", "heineken"},
	{"adyen", "adyen"},
	{"booking.com", "booking.com"},
	{"bol.com", "bol-com"},
	{"coolblue", "coolblue"},
	{"vodafoneziggo", "vodafoneziggo"},
	{"kpn", "kpn"},
	{"ns reizigers", "nederlandse-spoorwegen"},
	{"nederlandse spoorwegen", "nederlandse-spoorwegen"},
	{"sncb", "sncb-nmbs"},
	{"nmbs", "sncb-nmbs"},
	{"accenture", "accenture"},
	{"deloitte", "deloitte"},
	{"capgemini", "capgemini"},
	{"microsoft", "microsoft"},
	{"google", "google"},
	{"amazon web services", "amazon-web-services"},
	{"amazon", "amazon"},
}
