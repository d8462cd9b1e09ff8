package credentials

// Denylists of passwords and email addresses seen repeatedly in abuse
// traffic. Checked verbatim; no normalization beyond email lowercasing.

var commonPasswords = toSet([]string{
	"1234567890A1@", "123456789A1@", "access123A1@", "adminadminA1@", "adventureA1@",
	"asdfghjkl1A1@", "baseball1A1@", "basketballA1@", "butterflyA1@", "cheese123A1@",
	"chocolate1A1@", "computer1A1@", "dragon123A1@", "elephant1A1@", "flower123A1@",
	"football1A1@", "freedom11A1@", "galaxy123A1@", "hello1234A1@", "iloveyou1A1@",
	"internet1A1@", "keyboard12A1@", "letmein123A1@", "monkey123A1@", "ninja1234A1@",
	"password123A1@", "penguins1A1@", "pineappleA1@", "qazwsxedc1A1@", "qwerty1234A1@",
	"shadow123A1@", "starwars1A1@", "sunshine1A1@", "superman1A1@", "trustno11A1@",
	"welcome123A1@", "whatever1A1@", "zxcvbnm12A1@",
})

var commonEmails = toSet([]string{
	"123456789@gmail.com", "qwerty123@gmail.com", "letmein123@gmail.com", "iloveyou1@gmail.com",
	"adminadmin@gmail.com", "password123@gmail.com", "football1@gmail.com", "baseball1@gmail.com",
	"monkey123@gmail.com", "welcome123@gmail.com", "sunshine1@gmail.com", "princess1@gmail.com",
	"dragon123@gmail.com", "freedom11@gmail.com", "starwars1@gmail.com", "superman1@gmail.com",
	"trustno11@gmail.com", "computer1@gmail.com", "internet1@gmail.com", "keyboard12@gmail.com",
	"notarealemail123@gmail.com", "fakename2023@gmail.com", "junkaccount01@gmail.com",
	"throwawayacc@gmail.com", "thisisfake99@gmail.com", "testuserdemo@gmail.com",
	"disposable123@gmail.com", "burnermail321@gmail.com", "nomailneeded@gmail.com",
	"temporaryhuman@gmail.com", "fakemailhere@gmail.com", "accountforspam@gmail.com",
})

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
