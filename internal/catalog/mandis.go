package catalog

// mandis maps each Maharashtra district to its APMC markets.
var mandis = map[string][]string{
	"Pune":            {"Pune Market Yard", "Baramati APMC", "Daund APMC", "Junnar APMC", "Shirur APMC"},
	"Mumbai Suburban": {"Vashi APMC", "Turbhe Market", "Kalyan Market"},
	"Nagpur":          {"Nagpur Cotton Market", "Kamptee APMC", "Katol Market", "Hingna APMC"},
	"Nashik":          {"Nashik APMC", "Malegaon Market", "Sinnar APMC", "Lasalgaon APMC", "Igatpuri Market"},
	"Thane":           {"Kalyan Market", "Bhiwandi APMC", "Palghar Market", "Dahanu APMC"},
	"Aurangabad":      {"Aurangabad APMC", "Paithan Market", "Gangapur APMC", "Vaijapur Market"},
	"Solapur":         {"Solapur APMC", "Pandharpur Market", "Barshi APMC", "Akkalkot Market"},
	"Kolhapur":        {"Kolhapur APMC", "Kagal Market", "Ichalkaranji Market", "Panhala APMC"},
	"Ahmednagar":      {"Ahmednagar APMC", "Sangamner Market", "Kopargaon APMC", "Rahuri Market"},
	"Satara":          {"Satara APMC", "Karad Market", "Wai APMC", "Koregaon Market"},
	"Sangli":          {"Sangli APMC", "Miraj Market", "Islampur Market", "Tasgaon APMC"},
	"Ratnagiri":       {"Ratnagiri APMC", "Chiplun Market", "Dapoli APMC"},
	"Sindhudurg":      {"Kudal APMC", "Malwan Market", "Vengurla Market"},
	"Amravati":        {"Amravati Cotton Market", "Morshi APMC", "Daryapur Market"},
	"Akola":           {"Akola Cotton Market", "Akot APMC", "Barshitakli Market"},
	"Washim":          {"Washim APMC", "Karanja Market", "Malegaon Market"},
	"Buldhana":        {"Buldhana Cotton Market", "Malkapur APMC", "Chikhli Market"},
	"Yavatmal":        {"Yavatmal Cotton Market", "Pusad APMC", "Darwha Market"},
	"Wardha":          {"Wardha APMC", "Hinganghat Market", "Arvi Market"},
	"Chandrapur":      {"Chandrapur APMC", "Warora Market", "Ballarpur Market"},
	"Gadchiroli":      {"Gadchiroli APMC", "Dhanora Market", "Armori Market"},
	"Gondia":          {"Gondia APMC", "Tirora Market", "Goregaon Market"},
	"Bhandara":        {"Bhandara APMC", "Tumsar Market", "Pauni Market"},
	"Jalgaon":         {"Jalgaon APMC", "Bhusawal Market", "Amalner APMC"},
	"Dhule":           {"Dhule APMC", "Shirpur Market", "Sakri Market"},
	"Nandurbar":       {"Nandurbar APMC", "Shahada Market", "Taloda Market"},
	"Osmanabad":       {"Osmanabad APMC", "Tuljapur Market", "Bhum Market"},
	"Latur":           {"Latur APMC", "Nilanga Market", "Ausa Market"},
	"Beed":            {"Beed APMC", "Ambajogai Market", "Parli Market"},
	"Parbhani":        {"Parbhani APMC", "Purna Market", "Pathri Market"},
	"Jalna":           {"Jalna APMC", "Ambad Market", "Bhokardan Market"},
	"Hingoli":         {"Hingoli APMC", "Kalamnuri Market", "Sengaon Market"},
	"Nanded":          {"Nanded APMC", "Kinwat Market", "Hadgaon Market"},
	"Palghar":         {"Palghar APMC", "Vasai Market", "Virar Market", "Manor APMC"},
	"Raigad":          {"Alibag APMC", "Panvel Market", "Karjat Market", "Pen APMC"},
}

// Mandis returns the known APMC markets for a district. Unknown districts
// return an empty slice; callers decide how to degrade.
func Mandis(district string) []string {
	list, ok := mandis[district]
	if !ok {
		return nil
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// Districts returns all districts with a known mandi list.
func Districts() []string {
	names := make([]string, 0, len(mandis))
	for name := range mandis {
		names = append(names, name)
	}
	return names
}
