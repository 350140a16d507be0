package testkit

// AnnotationTSV is a small mouse-like gene table in the idmap annotation format
const AnnotationTSV = "gene_id\tsymbol\taliases\taccessions\n" +
	"15957\tIfit1\tIfi56|Isg56\tENSMUSG00000034459|NM_008331\n" +
	"20905\tSts\t-\tENSMUSG00000040670|NM_009293\n" +
	"54123\tIrf7\t-\tENSMUSG00000025498|NM_016850\n" +
	"53606\tIsg15\tG1p2\tENSMUSG00000035692\n" +
	"16193\tIl6\tIl-6\tNM_031168\n" +
	"21926\tTnf\tTnfa|TNF-alpha\tNM_013693\n" +
	"12266\tC3\t-\t-\n" +
	"15945\tCxcl10\tIp10|Scyb10\t-\n" +
	"20846\tStat1\t-\tP42225\n" +
	"16362\tIrf1\t-\t-\n" +
	"12702\tSocs3\tCis3\t-\n" +
	"14825\tCxcl1\tGro1|Kc\t-\n"

// LibraryGMT is a symbol keyed GMT library over AnnotationTSV
const LibraryGMT = "# antiviral and inflammatory terms\n" +
	"GO:0051607\tdefense response to virus\tIfit1\tIrf7\tIsg15\tStat1\tCxcl10\n" +
	"GO:0006954\tinflammatory response\tIl6\tTnf\tC3\tCxcl1\tSocs3\tCxcl10\n" +
	"GO:0006694\tsteroid biosynthetic process\tSts\n" +
	"GO:0034340\tresponse to type I interferon\tIfit1\tIrf7\tIsg15\tIrf1\tStat1\tUnknownGene\n"
